package core

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyPayer      = errors.New("empty payer")
	ErrNoParticipants  = errors.New("expense has no participants")
	ErrBadParticipant  = errors.New("empty participant name")
	ErrDescTooLong     = errors.New("description too long (max 200 characters)")
	ErrEmptyName       = errors.New("empty name")
	ErrNameTooLong     = errors.New("name too long (max 100 characters)")
	ErrInvalidURL      = errors.New("invalid url")
	ErrEmptyNoteText   = errors.New("empty note text")
	ErrInvalidNoteType = errors.New("invalid note type")
	ErrInvalidUpload   = errors.New("invalid upload")
)
