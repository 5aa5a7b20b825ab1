package debug

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.Mutex
)

// Logger returns the debug logger. It is a no-op logger unless a debug
// switch is set in the environment, in which case it is a development
// logger writing to stderr.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if logger != nil {
			return
		}
		if !Enabled() {
			logger = zap.NewNop()
			return
		}
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l
	})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// SetLogger replaces the debug logger.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Node renders an IR node as YAML in log fields.
type Node struct{ *ir.Node }

func (y Node) String() string {
	x := y.Node
	if x == nil {
		return "<nil>"
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(x, buf, encode.EncodeFormat(format.YAMLFormat)); err != nil {
		return fmt.Sprintf("[raw *ir.Node] %v", x)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func Logf(msg string, args ...any) {
	for i := range args {
		if x, ok := args[i].(*ir.Node); ok {
			args[i] = Node{x}
		}
	}
	Logger().Sugar().Debugf(msg, args...)
}
