package log_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/aptpod/mptcp-go/log"
)

func Test_stdLogger(t *testing.T) {
	testee := NewStd()
	ctx := context.Background()
	require.NotPanics(t, func() { testee.Infof(ctx, "message") })
	require.NotPanics(t, func() { testee.Warnf(ctx, "message") })
	require.NotPanics(t, func() { testee.Errorf(ctx, "message") })
	require.NotPanics(t, func() { testee.Debugf(ctx, "message") })
}

func Test_stdLogger_trackIDs(t *testing.T) {
	var buf bytes.Buffer
	testee := NewStdWith(log.New(&buf, "", 0))
	ctx := WithTrackSubflowID(WithTrackSessionID(context.Background(), "s1"), "3")
	testee.Warnf(ctx, "fanout failed: %d%%", 50)
	require.Equal(t, "WARN: track-session-id:s1\ttrack-subflow-id:3\tfanout failed: 50%\n", buf.String())
}

func Example_stdLogger() {
	ctx := context.Background()
	testee := NewStd()
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Lshortfile)
	testee.Infof(ctx, "message %s", "info")
	testee.Warnf(ctx, "message %s", "warn")
	testee.Errorf(ctx, "message %s", "error")
	testee.Debugf(ctx, "message %s", "debug")

	// Output:
	// logger_std_test.go:37: INFO: message info
	// logger_std_test.go:38: WARN: message warn
	// logger_std_test.go:39: ERROR: message error
	// logger_std_test.go:40: DEBUG: message debug
}
