package framesync_test

import (
	"runtime"
	"testing"

	"github.com/aretw0/framesync"
	"github.com/stretchr/testify/assert"
)

func TestBuildInfo(t *testing.T) {
	old := framesync.Version
	framesync.Version = "1.4.0\n"
	defer func() { framesync.Version = old }()

	info := framesync.BuildInfo()
	assert.Equal(t, "framesync", info["app"])
	assert.Equal(t, "1.4.0", info["version"])
	assert.Equal(t, runtime.Version(), info["go"])
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info["platform"])
}
