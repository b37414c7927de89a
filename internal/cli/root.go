// Package cli implements the pptxinject command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/pptxinject/internal/config"
)

var version = "dev"

var (
	logLevel   string
	logFormat  string
	configPath string

	// set by PersistentPreRunE
	appConfig *config.Config
	logger    = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "pptxinject",
	Short: "PPTX 템플릿에 데이터를 주입하는 도구",
	Long: `pptxinject는 PPTX 문서를 중간 표현(IR)으로 덤프하고, 데이터를 주입한 뒤
다시 PPTX로 빌드합니다.

단계:
  dump      PPTX → IR(JSON)
  inject    템플릿 + 데이터 → PPTX
  build     IR(JSON) → PPTX

예시:
  pptxinject dump template.pptx -o template.json
  pptxinject inject template.pptx --data data.yaml --preset doi-v1 -o out.pptx
  pptxinject build template.json -o out.pptx`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pptxinject %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "로그 레벨 (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "로그 형식 (text, json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: ~/.pptxinject/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

// setup loads the configuration and builds the logger. Flags win over the
// configuration file.
func setup(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	l, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = l
	return nil
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 레벨: %s", lc.Level)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(lc.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("유효하지 않은 로그 형식: %s (text, json)", lc.Format)
	}
}
