package websocket

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufRW(buf *bytes.Buffer) *bufio.ReadWriter {
	return bufio.NewReadWriter(bufio.NewReader(buf), bufio.NewWriter(buf))
}

func TestFrameCodec_RoundTrip(t *testing.T) {
	t.Run("Short text frame", func(t *testing.T) {
		// Given: a message serialized into a server frame
		var buf bytes.Buffer
		bufrw := newBufRW(&buf)

		conn := &connection{bufrw: bufrw}
		err := conn.sendMessage("game:turn", Payload{First: "player"})
		require.NoError(t, err)

		// When: reading the frame back
		body, err := readRequest(newBufRW(&buf))
		require.NoError(t, err)

		// Then: the decoded message matches what was sent
		var message Message
		require.NoError(t, json.Unmarshal(body, &message))
		assert.Equal(t, "game:turn", message.Action)
	})

	t.Run("Extended 16-bit length frame", func(t *testing.T) {
		// Given: a payload longer than 125 bytes
		var buf bytes.Buffer
		payload := bytes.Repeat([]byte("a"), 300)

		err := writeFrame(newBufRW(&buf), frame{
			isFin:   true,
			opCode:  1,
			length:  uint64(len(payload)),
			payload: payload,
		})
		require.NoError(t, err)

		// When: reading it back
		body, err := readRequest(newBufRW(&buf))

		// Then: the payload survives intact
		require.NoError(t, err)
		assert.Equal(t, payload, body)
	})

	t.Run("Masked client frame is unmasked", func(t *testing.T) {
		// Given: a client-style masked frame
		payload := []byte(`{"action":"connect"}`)
		mask := []byte{0x1f, 0x2e, 0x3d, 0x4c}

		masked := make([]byte, len(payload))
		for i, b := range payload {
			masked[i] = b ^ mask[i%4]
		}

		var buf bytes.Buffer
		buf.Write([]byte{0x81, 0x80 | byte(len(payload))})
		buf.Write(mask)
		buf.Write(masked)

		// When: reading the frame
		body, err := readRequest(newBufRW(&buf))

		// Then: the original payload comes out
		require.NoError(t, err)
		assert.Equal(t, payload, body)
	})
}
