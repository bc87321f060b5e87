package escpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandBytes(t *testing.T) {
	out := NewBuilder().
		Init().
		Align(Center).
		Styled(ModeDoubleSize, "SHOP").
		Align(Left).
		Separator().
		PartialCut().
		Bytes()

	want := []byte{0x1B, '@', 0x1B, 'a', 1, 0x1B, '!', 0x38}
	want = append(want, "SHOP\n"...)
	want = append(want, 0x1B, '!', 0x00, 0x1B, 'a', 0)
	want = append(want, "--------------------------------\n"...)
	want = append(want, 0x1D, 'V', 0x42, 0x00)
	assert.Equal(t, want, out)
}

func TestFeed(t *testing.T) {
	assert.Equal(t, []byte("\n\n\n"), NewBuilder().Feed(3).Bytes())
	assert.Empty(t, NewBuilder().Feed(0).Bytes())
}
