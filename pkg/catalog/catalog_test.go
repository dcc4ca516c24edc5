package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFlattensIssues(t *testing.T) {
	path := writeCatalog(t, `[
		{
			"model": "EL-32DS4200",
			"troubleshooting_issues": [
				{"issue": "No picture but sound works", "steps": ["Check backlight", "Check T-con board"]},
				{"issue": "  ", "steps": ["ignored"]},
				{"issue": "Screen flickering", "steps": []}
			],
			"images": {"motherboard": "el32_mb.png"}
		},
		{
			"model": "",
			"troubleshooting_issues": [{"issue": "orphan issue", "steps": []}]
		},
		{
			"model": "X123-A",
			"troubleshooting_issues": [{"issue": "No power", "steps": ["Check fuse"]}]
		}
	]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 3, "blank issues and nameless models are dropped")

	assert.Equal(t, "EL-32DS4200", records[0].Model)
	assert.Equal(t, "No picture but sound works", records[0].Issue)
	assert.Equal(t, []string{"Check backlight", "Check T-con board"}, records[0].Steps)
	assert.Equal(t, "el32_mb.png", records[0].Images["motherboard"])
	assert.Equal(t, "el32_mb.png", records[1].Images["motherboard"], "model images attach to every issue record")
	assert.Equal(t, "X123-A", records[2].Model)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, `{"not": "an array"}`))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, `[{"model": "X1", "troubleshooting_issues": []}]`))
	assert.Error(t, err, "a catalog with nothing indexable is a startup failure")
}

func TestModelHelpers(t *testing.T) {
	records := []Record{
		{Model: "EL-32DS4200", Issue: "No picture", Images: map[string]string{"block_diagram": "bd.png"}},
		{Model: "EL-32DS4200", Issue: "Flickering"},
		{Model: "X123-A", Issue: "No power"},
	}

	assert.Equal(t, []string{"No picture", "Flickering"}, IssuesForModel(records, "el-32ds4200"))
	assert.Empty(t, IssuesForModel(records, "UNKNOWN"))

	images := ImagesForModel(records, " EL-32DS4200 ")
	require.NotNil(t, images)
	assert.Equal(t, "bd.png", images["block_diagram"])
	assert.Nil(t, ImagesForModel(records, "X123-A"), "model without images yields nil")

	assert.True(t, HasModel(records, "x123-a"))
	assert.False(t, HasModel(records, "Y456"))
}
