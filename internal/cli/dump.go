package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/ir"
)

var (
	dumpOutput     string
	dumpFormat     string
	dumpNoImages   bool
	dumpAssetDir   string
	dumpLenient    bool
	dumpThemeColor bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.pptx>",
	Short: "PPTX 문서를 IR(중간 표현)로 덤프",
	Long: `PPTX 문서를 파싱하여 IR(Intermediate Representation)을 JSON으로 출력합니다.

그림은 <출력 디렉토리>/asset/ 아래에 저장되며, IR에는 상대 경로가 기록됩니다.
기본(strict) 모드에서는 모든 텍스트 런에 글꼴 이름과 크기가,
모든 표 셀에 채우기가 명시되어 있어야 합니다.

예시:
  pptxinject dump template.pptx -o template.json
  pptxinject dump template.pptx --format text
  pptxinject dump template.pptx -o ir/template.json --lenient --allow-theme-colors`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "출력 형식 (json, text)")
	dumpCmd.Flags().BoolVar(&dumpNoImages, "no-images", false, "그림 파일을 저장하지 않음")
	dumpCmd.Flags().StringVar(&dumpAssetDir, "asset-dir", "", "그림 저장 기준 디렉토리 (기본: 출력 파일 디렉토리)")
	dumpCmd.Flags().BoolVar(&dumpLenient, "lenient", false, "명시적 글꼴/셀 채우기 검사 생략")
	dumpCmd.Flags().BoolVar(&dumpThemeColor, "allow-theme-colors", false, "테마 색상 허용")

	rootCmd.AddCommand(dumpCmd)
}

// dumpOutputDir picks the directory assets are written under.
func dumpOutputDir() string {
	switch {
	case dumpAssetDir != "":
		return dumpAssetDir
	case dumpOutput != "":
		return filepath.Dir(dumpOutput)
	case appConfig != nil && appConfig.Dump.AssetDir != "":
		return appConfig.Dump.AssetDir
	default:
		return "."
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	opts := readerOptions(dumpOutputDir())
	opts.ExtractImages = !dumpNoImages
	if dumpLenient {
		opts.Strict = false
	}
	if dumpThemeColor {
		opts.AllowThemeColors = true
	}

	doc, _, err := loadDocument(args[0], opts)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}

	switch dumpFormat {
	case "json":
		if dumpOutput == "" {
			data, err := ir.Marshal(doc)
			if err != nil {
				return fmt.Errorf("IR 직렬화 실패: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := ir.SaveJSON(dumpOutput, doc); err != nil {
			return fmt.Errorf("파일 저장 실패: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "IR 덤프 완료: %s (%d 슬라이드)\n", dumpOutput, len(doc.Slides))
		return nil

	case "text":
		return ir.Describe(cmd.OutOrStdout(), doc, ir.DescribeOptions{})

	default:
		return fmt.Errorf("지원하지 않는 출력 형식: %s", dumpFormat)
	}
}
