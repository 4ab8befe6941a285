package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQL700Continuous(t *testing.T) {
	s, err := DecodeStatus(ql700Continuous29().bytes())
	require.NoError(t, err)

	assert.Equal(t, ModelQL700, s.Model)
	assert.Equal(t, "QL-700", s.Model.String())
	assert.Equal(t, ReplyToStatusRequest, s.Type)
	assert.Empty(t, s.Errors)
	assert.False(t, s.HasErrors())
	assert.Equal(t, Media{Kind: MediaContinuous, Width: 29, Length: 0}, s.Media)

	g, err := s.Media.Geometry()
	require.NoError(t, err)
	assert.True(t, g.IsContinuous())
	assert.Equal(t, 29, g.TapeSize.Width)
	assert.Equal(t, 35, g.FeedMargin)
	assert.Equal(t, 6, g.RightMargin)
}

func TestDecodeIsPure(t *testing.T) {
	b := statusBytes{model: 0x32, err1: 0x13, err2: 0x50, width: 62, mediaType: 0x0B, length: 29, statusType: 0x02}.bytes()
	s1, err := DecodeStatus(b)
	require.NoError(t, err)
	s2, err := DecodeStatus(b)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestDecodeMalformed(t *testing.T) {
	good := ql700Continuous29().bytes()

	_, err := DecodeStatus(good[:31])
	assert.ErrorIs(t, err, ErrMalformedReply)

	_, err = DecodeStatus(append(good, 0))
	assert.ErrorIs(t, err, ErrMalformedReply)

	_, err = DecodeStatus(nil)
	assert.ErrorIs(t, err, ErrMalformedReply)

	bad := ql700Continuous29().bytes()
	bad[0] = 0x81
	s, err := DecodeStatus(bad)
	assert.ErrorIs(t, err, ErrMalformedReply)
	assert.Nil(t, s)
}

func TestDecodeErrorFlagOrder(t *testing.T) {
	s, err := DecodeStatus(statusBytes{err1: 0x01 | 0x80}.bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"No media when printing", "Fan doesn't work"}, s.Errors)

	s, err = DecodeStatus(statusBytes{}.bytes())
	require.NoError(t, err)
	assert.NotNil(t, s.Errors)
	assert.Empty(t, s.Errors)
}

func TestDecodeAllErrorFlags(t *testing.T) {
	s, err := DecodeStatus(statusBytes{err1: 0xFF, err2: 0xFF}.bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"No media when printing",
		"End of media",
		"Tape cutter jam",
		"Main unit in use",
		"Fan doesn't work",
		"Transmission error",
		"Cover open",
		"Cannot feed",
		"System error",
	}, s.Errors)
}

func TestDecodeIgnoresUndefinedErrorBits(t *testing.T) {
	s, err := DecodeStatus(statusBytes{err1: 0x08 | 0x20 | 0x40, err2: 0x01 | 0x02 | 0x20}.bytes())
	require.NoError(t, err)
	assert.Empty(t, s.Errors)
}

func TestDecodeSecondByteFlags(t *testing.T) {
	s, err := DecodeStatus(statusBytes{err1: 0x02, err2: 0x10}.bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"End of media", "Cover open"}, s.Errors)
}

func TestDecodeModels(t *testing.T) {
	for code, name := range map[byte]string{
		0x4F: "QL-500/550",
		0x31: "QL-560",
		0x32: "QL-570",
		0x33: "QL-580N",
		0x51: "QL-650TD",
		0x35: "QL-700",
		0x50: "QL-1050",
		0x34: "QL-1060N",
		0x00: "Unknown",
		0x99: "Unknown",
	} {
		s, err := DecodeStatus(statusBytes{model: code}.bytes())
		require.NoError(t, err)
		assert.Equal(t, name, s.Model.String(), "model code 0x%02x", code)
	}
}

func TestDecodeStatusTypes(t *testing.T) {
	for code, want := range map[byte]StatusType{
		0x00: ReplyToStatusRequest,
		0x01: PrintingCompleted,
		0x02: ErrorOccurred,
		0x05: Notification,
		0x06: PhaseChange,
		0x03: Notification,
		0xFF: Notification,
	} {
		s, err := DecodeStatus(statusBytes{statusType: code}.bytes())
		require.NoError(t, err)
		assert.Equal(t, want, s.Type, "status type code 0x%02x", code)
	}
}

func TestDecodeMediaKinds(t *testing.T) {
	for code, want := range map[byte]MediaKind{
		0x0A: MediaContinuous,
		0x0B: MediaDieCut,
		0x00: MediaNone,
		0x4A: MediaNone,
	} {
		s, err := DecodeStatus(statusBytes{mediaType: code}.bytes())
		require.NoError(t, err)
		assert.Equal(t, want, s.Media.Kind)
	}
}

func TestMediaGeometry(t *testing.T) {
	g, err := Media{Kind: MediaDieCut, Width: 29, Length: 90}.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 991, g.Printable.Length)

	// zero length is continuous whatever the media kind says
	g, err = Media{Kind: MediaDieCut, Width: 62}.Geometry()
	require.NoError(t, err)
	assert.True(t, g.IsContinuous())

	_, err = Media{Kind: MediaContinuous, Width: 13}.Geometry()
	assert.ErrorIs(t, err, ErrUnknownMedia)
}

func TestStatusString(t *testing.T) {
	s, err := DecodeStatus(statusBytes{model: 0x35, err2: 0x10, width: 62, mediaType: 0x0A}.bytes())
	require.NoError(t, err)
	assert.Equal(t, "QL-700 ReplyToStatusRequest media=ContinuousTape(62x0) errors=Cover open", s.String())
}
