package model

import (
	"tomgalvin.uk/qlprint/internal/media"
	"tomgalvin.uk/qlprint/internal/printer"
)

type MediaResponse struct {
	Kind   string `json:"kind"`
	Width  int    `json:"width"`
	Length int    `json:"length"`
	// empty when the printer reports media that isn't in the table
	Description     string `json:"description,omitempty"`
	PrintableWidth  int    `json:"printableWidth,omitempty"`
	PrintableLength int    `json:"printableLength,omitempty"`
}

type StatusResponse struct {
	Model  string        `json:"model"`
	Type   string        `json:"type"`
	Errors []string      `json:"errors"`
	Media  MediaResponse `json:"media"`
}

func FromStatus(s *printer.Status) StatusResponse {
	r := StatusResponse{
		Model:  s.Model.String(),
		Type:   s.Type.String(),
		Errors: s.Errors,
		Media: MediaResponse{
			Kind:   s.Media.Kind.String(),
			Width:  int(s.Media.Width),
			Length: int(s.Media.Length),
		},
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if s.Media.Kind != printer.MediaNone {
		if g, err := s.Media.Geometry(); err == nil {
			r.Media.withGeometry(g)
		}
	}
	return r
}

func (m *MediaResponse) withGeometry(g media.Geometry) {
	m.Description = g.String()
	m.PrintableWidth = g.Printable.Width
	m.PrintableLength = g.Printable.Length
}
