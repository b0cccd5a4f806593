package web

import "embed"

// TemplatesFS holds the launchpad page and its htmx partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the page script.
//
//go:embed static/*
var StaticFS embed.FS
