// This file implements the raster command byte sequences that can be written
// to Brother QL printers.

package printer

import (
	"encoding/binary"

	"tomgalvin.uk/qlprint/internal/bitmap"
)

// Control characters
const (
	Esc = 0x1B
	Sub = 0x1A
)

// Second and third bytes of the ESC i commands
const (
	escI            = 0x69
	opStatusRequest = 0x53
	opSwitchMode    = 0x61
	opMediaInfo     = 0x7A
	opVariousMode   = 0x4D
	opExpandedMode  = 0x4B
	opMargins       = 0x64
	opRasterLine    = 0x67
)

// Number of zero bytes written to flush any partially received command
const clearLength = 200

const rasterMode = 0x01

// Validity flags of the media information command
const (
	mediaFlagType     = 0x02
	mediaFlagWidth    = 0x04
	mediaFlagLength   = 0x08
	mediaFlagQuality  = 0x40
	mediaFlagRecovery = 0x80

	mediaFlagsAll = mediaFlagType | mediaFlagWidth | mediaFlagLength | mediaFlagQuality | mediaFlagRecovery
)

// Length of the media information command and the offset of its line count
const (
	mediaCommandLength    = 13
	mediaCommandCountAt   = 7
	mediaCommandStartPage = 0x01
)

const (
	autoCutFlag  = 1 << 6
	cutAtEndFlag = 1 << 3
	// left clear to keep standard resolution
	highResolutionFlag = 1 << 6
)

// Writes zeroes to the printer to knock it out of any half-finished command
func clearCommand() []byte {
	return make([]byte, clearLength)
}

// Resets the printer's command state
func initCommand() []byte {
	return []byte{Esc, 0x40}
}

// Asks the printer to send a status reply
func statusRequestCommand() []byte {
	return []byte{Esc, escI, opStatusRequest}
}

// Switches the printer to raster mode
func rasterModeCommand() []byte {
	return []byte{Esc, escI, opSwitchMode, rasterMode}
}

func mediaTypeCode(k MediaKind) (byte, bool) {
	switch k {
	case MediaContinuous:
		return mediaCodeContinuous, true
	case MediaDieCut:
		return mediaCodeDieCut, true
	default:
		return 0, false
	}
}

// Describes the loaded media and announces how many raster lines follow.
// lineCount must match the number of raster line commands sent afterwards.
func mediaCommand(mediaType byte, width, length uint8, lineCount uint32) []byte {
	c := make([]byte, mediaCommandLength)
	c[0], c[1], c[2] = Esc, escI, opMediaInfo
	c[3] = mediaFlagsAll
	c[4] = mediaType
	c[5] = width
	c[6] = length
	binary.LittleEndian.PutUint32(c[mediaCommandCountAt:], lineCount)
	c[11] = mediaCommandStartPage
	return c
}

// Reads the line count back out of a media information command
func mediaCommandLineCount(c []byte) uint32 {
	return binary.LittleEndian.Uint32(c[mediaCommandCountAt : mediaCommandCountAt+4])
}

// Cuts the tape after every label
func autoCutCommand() []byte {
	return []byte{Esc, escI, opVariousMode, autoCutFlag}
}

// Cuts at the end of the job and prints at standard resolution
func cutSettingsCommand() []byte {
	return []byte{Esc, escI, opExpandedMode, cutAtEndFlag &^ highResolutionFlag}
}

// Sets the feed margin, in dots
func marginsCommand(feedMargin int) []byte {
	return []byte{Esc, escI, opMargins, byte(feedMargin), byte(feedMargin >> 8)}
}

// Sends one raster line to the print head
func rasterLineCommand(line *bitmap.RasterLine) []byte {
	c := make([]byte, 0, 3+bitmap.LineBytes)
	c = append(c, opRasterLine, 0x00, bitmap.LineBytes)
	return append(c, line[:]...)
}

// Prints everything sent so far and feeds/cuts the tape
func printCommand() []byte {
	return []byte{Sub}
}
