package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/xray-worker/internal/config"
)

func TestPrintVersionInfo(t *testing.T) {
	Init(&config.Config{Worker: config.Worker{Name: "my-worker"}})
	defer Init(nil)

	v := currentVersions()
	assert.Equal(t, "my-worker", v.WorkerName)

	var buf bytes.Buffer
	require.NoError(t, printVersionInfo(&buf, v, false))
	assert.Contains(t, buf.String(), "Worker: my-worker")
	assert.Contains(t, buf.String(), "Core Version: vunknown")

	buf.Reset()
	require.NoError(t, printVersionInfo(&buf, v, true))
	assert.Contains(t, buf.String(), `"worker_name": "my-worker"`)
}

func TestCurrentVersionsDefaultName(t *testing.T) {
	Init(nil)
	assert.Equal(t, config.DefaultWorkerName, currentVersions().WorkerName)
}
