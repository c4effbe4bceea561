package output

import (
	"fmt"

	"github.com/temirov/codedoc/internal/types"
	"github.com/temirov/codedoc/internal/utils"
)

// FormatSummaryLine describes a finished scan in one line.
func FormatSummaryLine(result types.ScanResult) string {
	label := "files"
	if result.IncludedCount == 1 {
		label = "file"
	}
	extra := ""
	if result.Tokens > 0 {
		extra = fmt.Sprintf(", %d tokens", result.Tokens)
	}
	modelSuffix := ""
	if result.TokenModel != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", result.TokenModel)
	}
	digestSuffix := ""
	if result.Digest != "" {
		digestSuffix = fmt.Sprintf(", digest %s", result.Digest)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s%s", result.IncludedCount, label, utils.FormatFileSize(result.Bytes), extra, modelSuffix, digestSuffix)
}
