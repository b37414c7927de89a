package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/writer/pptx"
)

var (
	buildOutput    string
	buildAssetBase string
	buildTitle     string
)

var buildCmd = &cobra.Command{
	Use:   "build <file.json|file.pptx>",
	Short: "IR(JSON)로부터 PPTX 문서 생성",
	Long: `IR 파일로부터 PPTX 문서를 생성합니다.

그림 경로는 IR 파일이 있는 디렉토리를 기준으로 해석합니다.
읽을 수 없는 그림은 경고와 함께 건너뛰고 나머지 문서는 생성합니다.

예시:
  pptxinject build template.json -o out.pptx
  pptxinject build template.json -o out.pptx --title "발명신고서"`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "출력 PPTX 경로 (기본: 입력 파일명.pptx)")
	buildCmd.Flags().StringVar(&buildAssetBase, "asset-base", "", "그림 경로 기준 디렉토리 (기본: IR 파일 디렉토리)")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "문서 속성 제목")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	input := args[0]
	// pictures of a package input are exported here and read back by the writer
	tmp, err := os.MkdirTemp("", "pptxinject-build-")
	if err != nil {
		return fmt.Errorf("임시 디렉토리 생성 실패: %w", err)
	}
	defer os.RemoveAll(tmp)

	doc, base, err := loadDocument(input, readerOptions(tmp))
	if err != nil {
		return fmt.Errorf("IR 로드 실패: %w", err)
	}
	if buildAssetBase != "" {
		base = buildAssetBase
	}

	out := buildOutput
	if out == "" {
		out = strings.TrimSuffix(input, ".json") + ".pptx"
	}
	if out == input {
		return fmt.Errorf("출력 경로가 입력과 같습니다: %s", out)
	}
	return writeDocument(cmd, doc, out, base)
}

// writeDocument writes doc and reports skipped images.
func writeDocument(cmd *cobra.Command, doc *ir.Presentation, out, assetBase string) error {
	opts := pptx.DefaultOptions()
	opts.AssetBase = assetBase
	opts.Logger = logger
	opts.Title = buildTitle
	opts.Application = "pptxinject " + version

	w := pptx.NewWriter(opts)
	if err := w.Write(doc, out); err != nil {
		return fmt.Errorf("PPTX 생성 실패: %w", err)
	}
	for _, ae := range w.AssetErrors() {
		fmt.Fprintf(cmd.ErrOrStderr(), "경고: 그림 생략: %v\n", ae)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "PPTX 생성 완료: %s (%d 슬라이드)\n", out, len(doc.Slides))
	return nil
}
