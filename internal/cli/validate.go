package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/datactx"
	"github.com/roboco-io/pptxinject/internal/inject"
	"github.com/roboco-io/pptxinject/internal/ir"
)

var (
	validateMap    string
	validatePreset string
	validateData   string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.pptx|file.json>",
	Short: "문서와 바인딩 검사",
	Long: `문서의 구조적 제약(표 격자, 병합 영역, 색상, 글꼴)을 검사합니다.

--map 또는 --preset 을 지정하면 모든 바인딩 대상(슬라이드, 도형, 마커)이
문서에서 찾아지는지도 검사합니다. 프리셋은 데이터 파일이 필요합니다.

오류가 있으면 0이 아닌 종료 코드로 끝납니다. 경고는 표시만 합니다.

예시:
  pptxinject validate template.json
  pptxinject validate template.pptx --map bindings.yaml
  pptxinject validate template.pptx --preset doi-v1 --data data.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateMap, "map", "", "바인딩 매핑 파일 (yaml)")
	validateCmd.Flags().StringVar(&validatePreset, "preset", "", "내장 템플릿 계약")
	validateCmd.Flags().StringVar(&validateData, "data", "", "데이터 파일 (--preset 과 함께 사용)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts := readerOptions("")
	opts.ExtractImages = false

	doc, _, err := loadDocument(args[0], opts)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}

	issues := ir.Validate(doc)
	switch {
	case validateMap != "" && validatePreset != "":
		return fmt.Errorf("--map 과 --preset 은 함께 사용할 수 없습니다")

	case validateMap != "":
		m, err := inject.LoadMapping(validateMap)
		if err != nil {
			return fmt.Errorf("매핑 로드 실패: %w", err)
		}
		issues = append(issues, m.Validate(doc)...)

	case validatePreset != "":
		if validateData == "" {
			return fmt.Errorf("--preset 은 --data 가 필요합니다")
		}
		data, err := datactx.Load(validateData)
		if err != nil {
			return fmt.Errorf("데이터 로드 실패: %w", err)
		}
		reg, err := buildRegistry(cmd.OutOrStdout(), data, "", validatePreset)
		if err != nil {
			return err
		}
		issues = append(issues, inject.Check(doc, reg)...)
	}

	printIssues(cmd.OutOrStdout(), issues)
	if ir.HasErrors(issues) {
		return fmt.Errorf("검사 실패: %d개 문제", len(issues))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "문제 없음 (경고 %d개)\n", len(issues))
	return nil
}
