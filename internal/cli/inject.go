package cli

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/config"
	"github.com/roboco-io/pptxinject/internal/datactx"
	"github.com/roboco-io/pptxinject/internal/doi"
	"github.com/roboco-io/pptxinject/internal/inject"
	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/llm"
	pptxreader "github.com/roboco-io/pptxinject/internal/parser/pptx"
)

var (
	injectData     string
	injectMap      string
	injectPreset   string
	injectOutput   string
	injectIROut    string
	injectRefine   bool
	injectProvider string
	injectModel    string
	injectDryRun   bool
)

var injectCmd = &cobra.Command{
	Use:   "inject <template.pptx|template.json>",
	Short: "템플릿에 데이터를 주입하여 PPTX 생성",
	Long: `템플릿(PPTX 또는 IR)에 데이터 파일의 값을 주입하고 PPTX를 생성합니다.

바인딩은 --map (YAML 매핑 파일) 또는 --preset (내장 템플릿 계약) 중
하나로 지정합니다. 데이터 파일은 YAML, JSON, XLSX를 지원합니다.

--refine 을 지정하면 refine 표시된 바인딩의 텍스트 값을 LLM으로 다듬습니다
(--preset 사용 시 모든 텍스트/셀 바인딩).

환경 변수:
  PPTXINJECT_LLM=true        텍스트 다듬기 활성화
  PPTXINJECT_PROVIDER=xxx    LLM 프로바이더 (anthropic, openai, gemini, ollama)

예시:
  pptxinject inject template.pptx --data data.yaml --preset doi-v1 -o out.pptx
  pptxinject inject template.json --data data.xlsx --map bindings.yaml -o out.pptx
  pptxinject inject template.pptx --data data.yaml --map bindings.yaml --dry-run
  pptxinject inject template.pptx --data data.yaml --preset doi-v1 --refine --provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runInject,
}

func init() {
	injectCmd.Flags().StringVar(&injectData, "data", "", "데이터 파일 (yaml, json, xlsx)")
	injectCmd.Flags().StringVar(&injectMap, "map", "", "바인딩 매핑 파일 (yaml)")
	injectCmd.Flags().StringVar(&injectPreset, "preset", "", "내장 템플릿 계약 ("+doi.Preset+")")
	injectCmd.Flags().StringVarP(&injectOutput, "output", "o", "", "출력 PPTX 경로")
	injectCmd.Flags().StringVar(&injectIROut, "ir-out", "", "주입 결과 IR(JSON) 저장 경로")
	injectCmd.Flags().BoolVar(&injectRefine, "refine", false, "LLM 텍스트 다듬기 활성화")
	injectCmd.Flags().StringVar(&injectProvider, "provider", "", "LLM 프로바이더 (기본: 설정의 default_provider)")
	injectCmd.Flags().StringVar(&injectModel, "model", "", "LLM 모델 이름 (프로바이더 자동 감지)")
	injectCmd.Flags().BoolVar(&injectDryRun, "dry-run", false, "문서를 변경하지 않고 바인딩만 검사")

	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	if injectOutput == "" && injectIROut == "" && !injectDryRun {
		return fmt.Errorf("출력 경로가 필요합니다 (-o 또는 --ir-out)")
	}

	work, cleanup, err := workDir()
	if err != nil {
		return err
	}
	defer cleanup()

	doc, base, err := loadDocument(args[0], readerOptions(work))
	if err != nil {
		return fmt.Errorf("템플릿 로드 실패: %w", err)
	}

	data := datactx.New(nil)
	if injectData != "" {
		if data, err = datactx.Load(injectData); err != nil {
			return fmt.Errorf("데이터 로드 실패: %w", err)
		}
	}

	reg, err := buildRegistry(cmd.ErrOrStderr(), data, injectMap, injectPreset)
	if err != nil {
		return err
	}

	useRefine := injectRefine || (appConfig != nil && appConfig.Refine.Enabled)
	if useRefine && injectPreset != "" {
		if reg, err = refineAll(reg); err != nil {
			return err
		}
	}

	opts := []inject.Option{inject.WithLogger(logger), inject.WithDryRun(injectDryRun)}
	var refiner *llm.Refiner
	if useRefine && !injectDryRun {
		if refiner, err = newRefiner(); err != nil {
			return fmt.Errorf("LLM 초기화 실패: %w", err)
		}
		opts = append(opts, inject.WithRefiner(refiner))
	}

	if injectDryRun {
		issues := inject.Check(doc, reg)
		printIssues(cmd.OutOrStdout(), issues)
		if ir.HasErrors(issues) {
			return fmt.Errorf("바인딩 검사 실패: %d개 문제", len(issues))
		}
	}

	report, err := inject.NewEngine(reg, opts...).Run(cmd.Context(), doc, data.Map())
	if err != nil {
		return fmt.Errorf("주입 실패: %w", err)
	}
	printReport(cmd.OutOrStdout(), report)
	if refiner != nil {
		usage, calls := refiner.Usage()
		fmt.Fprintf(cmd.ErrOrStderr(), "LLM 호출: %d회, 토큰: %d\n", calls, usage.TotalTokens)
	}
	if injectDryRun {
		return nil
	}

	searchDirs := []string{base}
	if injectData != "" {
		searchDirs = append(searchDirs, filepath.Dir(injectData))
	}
	if injectIROut != "" {
		irDir := filepath.Dir(injectIROut)
		if err := stageImages(doc, irDir, searchDirs...); err != nil {
			return fmt.Errorf("그림 복사 실패: %w", err)
		}
		if err := ir.SaveJSON(injectIROut, doc); err != nil {
			return fmt.Errorf("IR 저장 실패: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "IR 저장 완료: %s\n", injectIROut)
		base = irDir
	} else if err := stageImages(doc, base, searchDirs[1:]...); err != nil {
		return fmt.Errorf("그림 복사 실패: %w", err)
	}

	if injectOutput == "" {
		return nil
	}
	return writeDocument(cmd, doc, injectOutput, base)
}

// workDir is where a package template's pictures are exported: next to the
// IR output when one is requested, otherwise a temporary directory.
func workDir() (string, func(), error) {
	if injectIROut != "" {
		return filepath.Dir(injectIROut), func() {}, nil
	}
	dir, err := os.MkdirTemp("", "pptxinject-")
	if err != nil {
		return "", nil, fmt.Errorf("임시 디렉토리 생성 실패: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// buildRegistry creates the bindings from a mapping file or a preset.
func buildRegistry(w io.Writer, data *datactx.Context, mapPath, preset string) (*inject.Registry, error) {
	switch {
	case mapPath != "" && preset != "":
		return nil, fmt.Errorf("--map 과 --preset 은 함께 사용할 수 없습니다")

	case mapPath != "":
		m, err := inject.LoadMapping(mapPath)
		if err != nil {
			return nil, fmt.Errorf("매핑 로드 실패: %w", err)
		}
		issues := m.Lint()
		printIssues(w, issues)
		if ir.HasErrors(issues) {
			return nil, fmt.Errorf("매핑 오류: %s", mapPath)
		}
		return m.Registry(inject.NewEvaluator())

	case preset == doi.Preset:
		d, err := doi.FromContext(data)
		if err != nil {
			return nil, fmt.Errorf("데이터 검사 실패: %w", err)
		}
		reg := inject.NewRegistry()
		if err := doi.Register(reg, d); err != nil {
			return nil, err
		}
		return reg, nil

	case preset != "":
		return nil, fmt.Errorf("알 수 없는 프리셋: %s (지원: %s)", preset, doi.Preset)

	default:
		return nil, fmt.Errorf("--map 또는 --preset 이 필요합니다")
	}
}

// refineAll returns a copy of reg in which every text binding requests
// refinement.
func refineAll(reg *inject.Registry) (*inject.Registry, error) {
	out := inject.NewRegistry()
	for _, b := range reg.Bindings() {
		switch b.Injector.Strategy() {
		case inject.StrategyShapeText, inject.StrategyShapeTextReset, inject.StrategyTableCell:
			b.Refine = true
		}
		if err := out.Register(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func newRefiner() (*llm.Refiner, error) {
	cfg := appConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	name := injectProvider
	if name == "" && injectModel != "" {
		name = detectProviderFromModel(injectModel)
	}
	p, err := llm.Select(cfg, name, injectModel)
	if err != nil {
		return nil, err
	}
	logger.Info("text refinement enabled", "provider", p.Name())
	return llm.NewRefiner(p, llm.OptionsFromConfig(cfg.Refine), logger), nil
}

// stageImages makes every image filename resolvable under assetBase. An image
// found in one of searchDirs is copied there; absolute and missing ones are
// left for the writer.
func stageImages(doc *ir.Presentation, assetBase string, searchDirs ...string) error {
	for _, s := range doc.Slides {
		for _, sh := range s.Shapes {
			if sh.Image == nil {
				continue
			}
			name := filepath.FromSlash(sh.Image.Filename)
			if filepath.IsAbs(name) || fileExists(filepath.Join(assetBase, name)) {
				continue
			}
			for _, dir := range searchDirs {
				src := filepath.Join(dir, name)
				if !fileExists(src) {
					continue
				}
				rel := sh.Image.Filename
				if !filepath.IsLocal(name) {
					rel = path.Join(pptxreader.AssetDir, filepath.Base(name))
				}
				if err := copyFile(src, filepath.Join(assetBase, filepath.FromSlash(rel))); err != nil {
					return err
				}
				sh.Image.Filename = rel
				break
			}
		}
	}
	return nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func printIssues(w io.Writer, issues []ir.Issue) {
	for _, i := range issues {
		fmt.Fprintln(w, i.String())
	}
}

func printReport(w io.Writer, r *inject.Report) {
	label := "적용"
	if r.DryRun {
		label = "적용 가능"
	}
	for _, a := range r.Applied {
		refined := ""
		if a.Refined {
			refined = " (LLM)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s%s\n", a.Binding, a.Strategy, a.Target, refined)
	}
	fmt.Fprintf(w, "%s: %d개 바인딩\n", label, len(r.Applied))
}
