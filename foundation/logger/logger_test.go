package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/blockseal/foundation/logger"
)

func Test_EvHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	log, err := logger.New("TEST", path)
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %s", err)
	}

	ev := logger.EvHandler(log, "trace-1")
	ev("worker: Mine: attempts[%d]", 42)
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Should be able to read the log: %s", err)
	}

	for _, exp := range []string{`"service":"TEST"`, `"traceid":"trace-1"`, "worker: Mine: attempts[42]"} {
		if !strings.Contains(string(data), exp) {
			t.Logf("got: %s", data)
			t.Fatalf("Should find %s in the log.", exp)
		}
	}
}
