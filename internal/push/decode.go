package push

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
)

// frameHandler receives what readFrames finds on the stream.
type frameHandler struct {
	// event returning false stops reading.
	event func(sse.Event) bool
	retry func(time.Duration)
}

// readFrames splits an SSE stream into blank-line terminated frames and
// decodes each with sse.Decode. retry fields are handled here and kept
// out of the frame: the decoder would store them as the event id. A frame cut off by EOF is discarded.
func readFrames(r io.Reader, h frameHandler) error {
	br := bufio.NewReader(r)
	var frame bytes.Buffer

	flush := func() (bool, error) {
		defer frame.Reset()
		events, err := sse.Decode(&frame)
		if err != nil {
			return false, err
		}
		for _, ev := range events {
			if !h.event(ev) {
				return false, nil
			}
		}
		return true, nil
	}

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 && (err == nil || strings.HasSuffix(line, "\n")) {
			trimmed := strings.TrimRight(line, "\r\n")
			switch {
			case trimmed == "":
				if frame.Len() > 0 {
					cont, ferr := flush()
					if ferr != nil {
						return ferr
					}
					if !cont {
						return nil
					}
				}
			case strings.HasPrefix(trimmed, "retry:"):
				if d, ok := parseRetry(trimmed); ok && h.retry != nil {
					h.retry(d)
				}
			default:
				frame.WriteString(trimmed)
				frame.WriteByte('\n')
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func parseRetry(line string) (time.Duration, bool) {
	v := strings.TrimPrefix(strings.TrimPrefix(line, "retry:"), " ")
	if v == "" {
		return 0, false
	}
	ms, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}
