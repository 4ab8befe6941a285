// A representation of the status message Brother QL printers reply with.
//
// Includes the model, the loaded media, the current operation and any errors
// that have occurred.

package printer

import (
	"fmt"
	"strings"

	"tomgalvin.uk/qlprint/internal/media"
)

// Size in bytes of every status reply
const StatusSize = 32

const statusMarker = 0x80

// Offsets into the status reply
const (
	offsetMarker     = 0
	offsetModel      = 4
	offsetErrorInfo1 = 8
	offsetErrorInfo2 = 9
	offsetMediaWidth = 10
	offsetMediaType  = 11
	offsetMediaLen   = 17
	offsetStatusType = 18
)

type Model byte

const (
	ModelUnknown Model = iota
	ModelQL500
	ModelQL560
	ModelQL570
	ModelQL580N
	ModelQL650TD
	ModelQL700
	ModelQL1050
	ModelQL1060N
)

var modelCodes = map[byte]Model{
	0x4F: ModelQL500,
	0x31: ModelQL560,
	0x32: ModelQL570,
	0x33: ModelQL580N,
	0x51: ModelQL650TD,
	0x35: ModelQL700,
	0x50: ModelQL1050,
	0x34: ModelQL1060N,
}

func (m Model) String() string {
	switch m {
	case ModelQL500:
		// the QL-500 and QL-550 report the same code
		return "QL-500/550"
	case ModelQL560:
		return "QL-560"
	case ModelQL570:
		return "QL-570"
	case ModelQL580N:
		return "QL-580N"
	case ModelQL650TD:
		return "QL-650TD"
	case ModelQL700:
		return "QL-700"
	case ModelQL1050:
		return "QL-1050"
	case ModelQL1060N:
		return "QL-1060N"
	default:
		return "Unknown"
	}
}

func modelFromCode(b byte) Model {
	if m, ok := modelCodes[b]; ok {
		return m
	}
	return ModelUnknown
}

type StatusType byte

const (
	ReplyToStatusRequest StatusType = iota
	PrintingCompleted
	ErrorOccurred
	Notification
	PhaseChange
)

func (s StatusType) String() string {
	switch s {
	case ReplyToStatusRequest:
		return "ReplyToStatusRequest"
	case PrintingCompleted:
		return "PrintingCompleted"
	case ErrorOccurred:
		return "ErrorOccurred"
	case Notification:
		return "Notification"
	case PhaseChange:
		return "PhaseChange"
	default:
		return fmt.Sprintf("StatusType(%d)", byte(s))
	}
}

func statusTypeFromCode(b byte) StatusType {
	switch b {
	case 0x00:
		return ReplyToStatusRequest
	case 0x01:
		return PrintingCompleted
	case 0x02:
		return ErrorOccurred
	case 0x05:
		return Notification
	case 0x06:
		return PhaseChange
	default:
		// not sent by any known firmware
		return Notification
	}
}

type MediaKind byte

const (
	MediaNone MediaKind = iota
	MediaContinuous
	MediaDieCut
)

// Media type codes, shared by the status reply and the media command
const (
	mediaCodeContinuous = 0x0A
	mediaCodeDieCut     = 0x0B
)

func (k MediaKind) String() string {
	switch k {
	case MediaContinuous:
		return "ContinuousTape"
	case MediaDieCut:
		return "DieCutLabels"
	default:
		return "None"
	}
}

func mediaKindFromCode(b byte) MediaKind {
	switch b {
	case mediaCodeContinuous:
		return MediaContinuous
	case mediaCodeDieCut:
		return MediaDieCut
	default:
		return MediaNone
	}
}

// Media as reported by the printer, width and length in mm
type Media struct {
	Kind   MediaKind
	Width  uint8
	Length uint8
}

// Resolves the reported media into a printable geometry. A length of 0 is
// looked up as continuous tape whatever the reported media kind.
func (m Media) Geometry() (media.Geometry, error) {
	g, ok := media.Lookup(m.Width, m.Length)
	if !ok {
		return media.Geometry{}, fmt.Errorf("%w: %dx%dmm", ErrUnknownMedia, m.Width, m.Length)
	}
	return g, nil
}

type errorFlag struct {
	offset  int
	mask    byte
	message string
}

// Order matters: errors are reported in this order
var errorFlags = []errorFlag{
	{offsetErrorInfo1, 0x01, "No media when printing"},
	{offsetErrorInfo1, 0x02, "End of media"},
	{offsetErrorInfo1, 0x04, "Tape cutter jam"},
	{offsetErrorInfo1, 0x10, "Main unit in use"},
	{offsetErrorInfo1, 0x80, "Fan doesn't work"},
	{offsetErrorInfo2, 0x04, "Transmission error"},
	{offsetErrorInfo2, 0x10, "Cover open"},
	{offsetErrorInfo2, 0x40, "Cannot feed"},
	{offsetErrorInfo2, 0x80, "System error"},
}

type Status struct {
	Model  Model
	Type   StatusType
	Errors []string
	Media  Media
}

func (s *Status) HasErrors() bool {
	return len(s.Errors) > 0
}

func (s *Status) String() string {
	errs := "none"
	if s.HasErrors() {
		errs = strings.Join(s.Errors, ", ")
	}
	return fmt.Sprintf("%s %s media=%s(%dx%d) errors=%s",
		s.Model, s.Type, s.Media.Kind, s.Media.Width, s.Media.Length, errs)
}

// Decodes a raw status reply. Replies of the wrong size or without the status
// marker are rejected entirely.
func DecodeStatus(b []byte) (*Status, error) {
	if len(b) != StatusSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrMalformedReply, len(b), StatusSize)
	}
	if b[offsetMarker] != statusMarker {
		return nil, fmt.Errorf("%w: bad marker 0x%02x", ErrMalformedReply, b[offsetMarker])
	}

	errs := []string{}
	for _, f := range errorFlags {
		if b[f.offset]&f.mask != 0 {
			errs = append(errs, f.message)
		}
	}

	return &Status{
		Model:  modelFromCode(b[offsetModel]),
		Type:   statusTypeFromCode(b[offsetStatusType]),
		Errors: errs,
		Media: Media{
			Kind:   mediaKindFromCode(b[offsetMediaType]),
			Width:  b[offsetMediaWidth],
			Length: b[offsetMediaLen],
		},
	}, nil
}
