package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, GetLevel("warning"))
	assert.Equal(t, log.ErrorLevel, GetLevel("error"))
	assert.Equal(t, log.InfoLevel, GetLevel(""))
	assert.Equal(t, log.InfoLevel, GetLevel("chatty"))
}

func TestSetupWritesToRotatingFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	name := filepath.Join(t.TempDir(), "logs", "mapty")

	closer := Setup(Params{FileName: name, Level: "debug", JSON: true})
	log.Debug("restored 3 workouts")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"restored 3 workouts"`)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.InfoLevel)
}

func TestSetupStderr(t *testing.T) {
	closer := Setup(Params{FileName: "-", Level: "warn"})
	assert.NoError(t, closer.Close())
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	log.SetLevel(log.InfoLevel)
}
