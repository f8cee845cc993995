package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
)

const testYAML = `intervals:
  - name: a
    low: 1
    high: 5
  - {name: b, low: 3, high: 8}
`

func TestSaveLoad_AllFormats(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"set.json", "set.yaml", "set.yml", "set.json.lz4", "set.yaml.lz4"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, dataset.Save(path, sampleSet()))

			loaded, err := dataset.Load(path, dataset.LoadOptions{ValidateSchema: true})
			require.NoError(t, err)
			assert.Equal(t, sampleSet(), loaded)
		})
	}
}

func TestSave_CompressedIsNotPlainText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "set.json.lz4")
	require.NoError(t, dataset.Save(path, sampleSet()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"intervals"`)
}

func TestLoad_YAMLFlowAndBlockStyles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	set, err := dataset.Load(path, dataset.LoadOptions{ValidateSchema: true})
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	assert.Equal(t, dataset.Record{Name: "b", Low: 3, High: 8}, set.Records[1])
}

func TestLoad_MaxSize(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	_, err := dataset.Load(path, dataset.LoadOptions{MaxSize: 16})
	require.ErrorIs(t, err, dataset.ErrTooLarge)

	_, err = dataset.Load(path, dataset.LoadOptions{MaxSize: uint64(len(testYAML))})
	require.NoError(t, err)
}

func TestLoad_SchemaViolation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"intervals":[{"low":"one","high":2},{"low":1}]}`), 0o600))

	_, err := dataset.Load(path, dataset.LoadOptions{ValidateSchema: true})
	require.ErrorIs(t, err, dataset.ErrSchema)

	var schemaErr *dataset.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.GreaterOrEqual(t, len(schemaErr.Violations), 2)
}

func TestLoad_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := dataset.Load(filepath.Join(t.TempDir(), "set.csv"), dataset.LoadOptions{})
	require.ErrorIs(t, err, dataset.ErrUnknownFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := dataset.Load(filepath.Join(t.TempDir(), "absent.json"), dataset.LoadOptions{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCodecFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path       string
		ext        string
		compressed bool
	}{
		{path: "a.json", ext: ".json"},
		{path: "dir/A.YAML", ext: ".yaml"},
		{path: "b.yml.lz4", ext: ".yaml", compressed: true},
		{path: "c.JSON.LZ4", ext: ".json", compressed: true},
	}

	for _, tt := range tests {
		codec, err := dataset.CodecFor(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.ext, codec.Extension(), tt.path)
		assert.Equal(t, tt.compressed, dataset.IsCompressed(tt.path), tt.path)
	}

	_, err := dataset.CodecFor("set.lz4")
	require.ErrorIs(t, err, dataset.ErrUnknownFormat)
}

func TestValidate_EmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := dataset.Decode(dataset.NewYAMLCodec(), nil, true)
	require.ErrorIs(t, err, dataset.ErrSchema)

	set, err := dataset.Decode(dataset.NewYAMLCodec(), nil, false)
	require.NoError(t, err)
	assert.Empty(t, set.Records)
}
