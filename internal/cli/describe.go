package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/ir"
)

var describeMaxDepth int

var describeCmd = &cobra.Command{
	Use:   "describe <file.pptx|file.json>",
	Short: "문서 구조를 트리 형태로 표시",
	Long: `PPTX 문서 또는 IR 파일의 슬라이드, 도형, 문단, 셀 구조를 표시합니다.
바인딩 대상(슬라이드 ID, 도형 이름)을 찾을 때 사용합니다.

--max-depth 로 표시 깊이를 제한합니다:
  1 슬라이드, 2 도형, 3 문단/행, 4 런

예시:
  pptxinject describe template.pptx
  pptxinject describe template.json --max-depth 2`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().IntVar(&describeMaxDepth, "max-depth", 0, "최대 표시 깊이 (0: 제한 없음)")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if describeMaxDepth < 0 {
		return fmt.Errorf("--max-depth 는 0 이상이어야 합니다: %d", describeMaxDepth)
	}
	opts := readerOptions("")
	opts.ExtractImages = false
	opts.Strict = false

	doc, _, err := loadDocument(args[0], opts)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	return ir.Describe(cmd.OutOrStdout(), doc, ir.DescribeOptions{MaxDepth: describeMaxDepth})
}
