package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		": keepalive",
		"",
		"event: board-update",
		"data: <div id=\"board\">",
		"data: </div>",
		"",
		"data: no event name",
		"",
		"event:game-over",
		"data:<p>done</p>",
		"",
	}, "\n")

	var got []SSEEvent
	require.NoError(t, readEvents(strings.NewReader(stream), func(ev SSEEvent) {
		got = append(got, ev)
	}))

	require.Len(t, got, 2)
	assert.Equal(t, "board-update", got[0].Event)
	assert.Equal(t, "<div id=\"board\">\n</div>", got[0].Data)
	assert.Equal(t, "game-over", got[1].Event)
	assert.Equal(t, "<p>done</p>", got[1].Data)
}

func TestReadEventsDropsUnterminatedEvent(t *testing.T) {
	var got []SSEEvent
	require.NoError(t, readEvents(strings.NewReader("event: paused\ndata: x\n"), func(ev SSEEvent) {
		got = append(got, ev)
	}))
	assert.Empty(t, got)
}

func TestPrintEvent(t *testing.T) {
	ev := SSEEvent{
		Time:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Event: "lines-cleared",
		Data:  "<div>\n  two   lines\n</div>",
	}

	var buf bytes.Buffer
	printEvent(&buf, ev, false)
	assert.Equal(t, "[12:00:00.000] lines-cleared: <div> two lines </div>\n", buf.String())

	buf.Reset()
	printEvent(&buf, SSEEvent{Event: "board-update", Data: strings.Repeat("x", 150)}, false)
	assert.Contains(t, buf.String(), strings.Repeat("x", 100)+"...")

	buf.Reset()
	printEvent(&buf, ev, true)
	var decoded SSEEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, ev.Event, decoded.Event)
	assert.Equal(t, ev.Data, decoded.Data)
}
