// This package holds the table of Brother QL label media and the printable
// geometry of each one. Entries are keyed by the width and length the
// printer reports in its status reply; a length of zero is continuous tape.
package media

import (
	"cmp"
	"fmt"
	"slices"
)

// A pair of measurements along the print head (width) and feed (length) axes
type WidthLength struct {
	Width, Length int
}

type Geometry struct {
	// physical size of the tape or label in mm; Length is 0 for continuous tape
	TapeSize WidthLength
	// total dots across the tape
	Dots WidthLength
	// dots reachable by the print head
	Printable WidthLength
	RightMargin int
	// blank feed, in dots, used for cut spacing
	FeedMargin int
}

func (g Geometry) IsContinuous() bool {
	return g.TapeSize.Length == 0
}

func (g Geometry) String() string {
	if g.IsContinuous() {
		return fmt.Sprintf("%dmm continuous", g.TapeSize.Width)
	}
	return fmt.Sprintf("%dx%dmm die-cut", g.TapeSize.Width, g.TapeSize.Length)
}

type dieCutKey struct {
	width, length uint8
}

const continuousFeedMargin = 35

func continuous(width, dots, printable, rightMargin int) Geometry {
	return Geometry{
		TapeSize:    WidthLength{width, 0},
		Dots:        WidthLength{dots, 0},
		Printable:   WidthLength{printable, 0},
		RightMargin: rightMargin,
		FeedMargin:  continuousFeedMargin,
	}
}

func dieCut(tape, dots, printable WidthLength, rightMargin int) Geometry {
	return Geometry{
		TapeSize:    tape,
		Dots:        dots,
		Printable:   printable,
		RightMargin: rightMargin,
	}
}

var continuousTapes = map[uint8]Geometry{
	12:  continuous(12, 142, 106, 29),
	29:  continuous(29, 342, 306, 6),
	38:  continuous(38, 449, 413, 12),
	50:  continuous(50, 590, 554, 12),
	54:  continuous(54, 636, 590, 0),
	62:  continuous(62, 732, 696, 12),
	102: continuous(102, 1200, 1164, 12),
}

var dieCutLabels = map[dieCutKey]Geometry{
	{17, 54}:  dieCut(WidthLength{17, 54}, WidthLength{201, 636}, WidthLength{165, 566}, 0),
	{17, 87}:  dieCut(WidthLength{17, 87}, WidthLength{201, 1026}, WidthLength{165, 956}, 0),
	{23, 23}:  dieCut(WidthLength{23, 23}, WidthLength{272, 272}, WidthLength{202, 202}, 42),
	{29, 42}:  dieCut(WidthLength{29, 42}, WidthLength{342, 495}, WidthLength{306, 425}, 6),
	{29, 90}:  dieCut(WidthLength{29, 90}, WidthLength{342, 1061}, WidthLength{306, 991}, 6),
	// the printer reports these 38mm labels as 39mm wide
	{39, 90}:  dieCut(WidthLength{38, 90}, WidthLength{449, 1061}, WidthLength{413, 991}, 12),
	{39, 48}:  dieCut(WidthLength{39, 48}, WidthLength{461, 565}, WidthLength{425, 495}, 6),
	{52, 29}:  dieCut(WidthLength{52, 29}, WidthLength{614, 341}, WidthLength{578, 271}, 0),
	{62, 29}:  dieCut(WidthLength{62, 29}, WidthLength{732, 341}, WidthLength{696, 271}, 12),
	{62, 100}: dieCut(WidthLength{62, 100}, WidthLength{732, 1179}, WidthLength{696, 1109}, 12),
}

// Looks up the geometry for the media reported as width x length mm.
// A length of 0 selects continuous tape. The second return value is false
// for media that isn't in the table.
func Lookup(width, length uint8) (Geometry, bool) {
	if length == 0 {
		g, ok := continuousTapes[width]
		return g, ok
	}
	g, ok := dieCutLabels[dieCutKey{width, length}]
	return g, ok
}

// Same as Lookup, with a nil length selecting continuous tape
func LookupOptional(width uint8, length *uint8) (Geometry, bool) {
	if length == nil {
		return Lookup(width, 0)
	}
	if *length == 0 {
		// a zero-length die-cut label doesn't exist
		return Geometry{}, false
	}
	return Lookup(width, *length)
}

// Entry pairs a geometry with the width/length key the printer reports for it.
type Entry struct {
	ReportedWidth, ReportedLength uint8
	Geometry                      Geometry
}

// Lists every known media, continuous tapes first, ordered by reported size
func All() []Entry {
	entries := make([]Entry, 0, len(continuousTapes)+len(dieCutLabels))
	for w, g := range continuousTapes {
		entries = append(entries, Entry{w, 0, g})
	}
	for k, g := range dieCutLabels {
		entries = append(entries, Entry{k.width, k.length, g})
	}
	slices.SortFunc(entries, compareEntries)
	return entries
}

func compareEntries(a, b Entry) int {
	if (a.ReportedLength == 0) != (b.ReportedLength == 0) {
		if a.ReportedLength == 0 {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.ReportedWidth, b.ReportedWidth); c != 0 {
		return c
	}
	return cmp.Compare(a.ReportedLength, b.ReportedLength)
}
