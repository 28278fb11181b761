package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	report := "# Review report\n\n## Due items (1)\n\n| Item | Difficulty | Reviews | Due at |\n|------|------------|---------|--------|\n| card-1 | good | 2 | 2025-03-01 08:00 UTC |\n"

	tests := []struct {
		name         string
		markdownPath string
		setupFile    func(t *testing.T) string
		opts         Options
		wantErrMsg   string
	}{
		{
			name:         "invalid extension",
			markdownPath: "report.txt",
			wantErrMsg:   "input file must have .md extension",
		},
		{
			name:         "file not found",
			markdownPath: "nonexistent.md",
			wantErrMsg:   "os.ReadFile",
		},
		{
			name: "portrait report",
			setupFile: func(t *testing.T) string {
				mdPath := filepath.Join(t.TempDir(), "report.md")
				require.NoError(t, os.WriteFile(mdPath, []byte(report), 0644))
				return mdPath
			},
		},
		{
			name: "landscape letter report in dark theme",
			setupFile: func(t *testing.T) string {
				mdPath := filepath.Join(t.TempDir(), "report.md")
				require.NoError(t, os.WriteFile(mdPath, []byte(report), 0644))
				return mdPath
			},
			opts: Options{Landscape: true, PaperSize: "Letter", Dark: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mdPath := tt.markdownPath
			if tt.setupFile != nil {
				mdPath = tt.setupFile(t)
			}

			pdfPath, err := ConvertMarkdownToPDF(mdPath, tt.opts)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(pdfPath))
			assert.Equal(t, ".pdf", filepath.Ext(pdfPath))
			info, err := os.Stat(pdfPath)
			require.NoError(t, err, "PDF file should be created")
			assert.Positive(t, info.Size())
		})
	}
}
