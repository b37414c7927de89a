package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/config"
	"github.com/roboco-io/pptxinject/internal/llm"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "사용 가능한 LLM 프로바이더 목록",
	Long: `inject --refine 에서 사용할 수 있는 LLM 프로바이더 목록을 표시합니다.

프로바이더는 설정 파일의 providers 항목에서 읽습니다. API 키는 보통
${ANTHROPIC_API_KEY} 처럼 환경 변수를 참조합니다.
(ollama는 로컬 서버로 API 키가 필요하지 않습니다)

사용 예시:
  pptxinject inject template.pptx --data data.yaml --preset doi-v1 --refine --provider anthropic
  pptxinject inject template.pptx --data data.yaml --preset doi-v1 --refine --provider openai --model gpt-4o`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	reg, err := llm.NewRegistryFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("프로바이더 초기화 실패: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "프로바이더\t모델\t상태\t")
	fmt.Fprintln(w, "---------\t----\t----\t")

	for _, s := range reg.Status() {
		mark := "✓ 사용가능"
		if s.Err != nil {
			mark = "✗ " + s.Err.Error()
		}
		if s.Name == cfg.DefaultProvider {
			mark += " (기본)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", s.Name, cfg.Providers[s.Name].Model, mark)
	}
	return w.Flush()
}

// detectProviderFromModel guesses the provider from a model name. Unknown
// names are assumed to be served by a local Ollama.
func detectProviderFromModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case m == "" || strings.HasPrefix(m, "claude"):
		return "anthropic"
	case strings.HasPrefix(m, "gpt") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3"):
		return "openai"
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	default:
		return "ollama"
	}
}
