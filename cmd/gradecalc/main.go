package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"gradecalc/internal/catalog"
	"gradecalc/internal/config"
	"gradecalc/internal/logging"
	"gradecalc/internal/model"
	"gradecalc/internal/server"
	"gradecalc/internal/service/calculator"
	"gradecalc/internal/store"
	"gradecalc/internal/util"
)

var version = "dev"

var (
	port       = flag.Int("port", 0, "服务端口 (覆盖配置文件与环境变量)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	majorsFile = flag.String("majors", "", "专业配置 TOML 文件 (仅在专业库为空时导入)")
	dumpMajors = flag.Bool("dump-majors", false, "以 TOML 输出当前专业库后退出")
	showVer    = flag.Bool("version", false, "输出版本号后退出")

	inPath = flag.String("in", "", "成绩表 xlsx；指定后执行单次计算而不启动服务")
	major  = flag.String("major", "", "专业代码")
	mode   = flag.String("mode", "", "计算模式 capped|uncapped (默认取配置)")
	terms  = flag.String("terms", "", "学年学期筛选，逗号分隔")
	sheet  = flag.String("sheet", "", "工作表名 (默认自动识别成绩表)")
	out    = flag.String("out", "", "结果工作簿输出路径")
	top    = flag.Int("top", 10, "单次计算时打印的名次数")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	applyFlags(cfg, &info, flagOverrides{
		Port:       *port,
		DevMode:    *devMode,
		DataDir:    *dataDir,
		MajorsFile: *majorsFile,
	})

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if info.FileFound {
		logger.Info().Str("path", info.Path).Strs("env", info.EnvOverrides).Msg("config loaded")
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	st, err := store.Open(dir)
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}
	defer st.Close()

	if err := seedMajors(st, cfg, logger); err != nil {
		return err
	}

	if *dumpMajors {
		majors, err := st.ListMajors()
		if err != nil {
			return err
		}
		data, err := catalog.Marshal(majors)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	engine := calculator.NewEngine(calculator.Config{
		Workers:           cfg.Calc.Workers,
		SignificantDigits: cfg.Calc.SignificantDigits,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *inPath != "" {
		m := cfg.DefaultMode()
		if *mode != "" {
			if m, err = model.ParseMode(*mode); err != nil {
				return err
			}
		}
		return runOnce(ctx, os.Stdout, st, engine, oneShot{
			In:    *inPath,
			Major: *major,
			Mode:  m,
			Terms: splitList(*terms),
			Sheet: *sheet,
			Out:   *out,
			Top:   *top,
		})
	}

	return serve(ctx, cfg, info, st, engine, dir, logger)
}

// flagOverrides 命令行中显式给出的配置项
type flagOverrides struct {
	Port       int
	DevMode    bool
	DataDir    string
	MajorsFile string
}

// applyFlags 命令行参数覆盖配置文件与环境变量
func applyFlags(cfg *config.AppConfig, info *config.LoadConfigInfo, f flagOverrides) {
	if f.Port > 0 {
		cfg.Server.Port = f.Port
		info.PortSpecified = true
	}
	if f.DevMode {
		cfg.Server.DevMode = true
	}
	if f.DataDir != "" {
		cfg.Data.DataDir = f.DataDir
	}
	if f.MajorsFile != "" {
		cfg.Catalog.MajorsFile = f.MajorsFile
	}
}

// seedMajors 专业库为空时写入配置文件或内置专业
func seedMajors(st *store.Store, cfg *config.AppConfig, logger zerolog.Logger) error {
	profiles := catalog.Defaults()
	source := "builtin"
	if path := cfg.Catalog.MajorsFile; path != "" {
		loaded, err := catalog.LoadFile(config.ResolvePath(path))
		if err != nil {
			return fmt.Errorf("读取专业配置失败: %w", err)
		}
		profiles, source = loaded, path
	}

	seeded, err := st.SeedMajorsIfEmpty(profiles)
	if err != nil {
		return fmt.Errorf("初始化专业库失败: %w", err)
	}
	if seeded {
		logger.Info().Str("source", source).Int("majors", len(profiles)).Msg("major registry seeded")
	}
	return nil
}

func serve(ctx context.Context, cfg *config.AppConfig, info config.LoadConfigInfo, st *store.Store, engine *calculator.Engine, dataDir string, logger zerolog.Logger) error {
	if !info.PortSpecified {
		p, err := util.FindAvailablePort(cfg.Server.Port, 20)
		if err != nil {
			return err
		}
		cfg.Server.Port = p
	}

	srv := server.NewServer(cfg, server.Deps{
		Store:     st,
		Engine:    engine,
		ExportDir: config.GetDataPath(cfg, "exports", ""),
		Version:   version,
		Logger:    logger,
	})

	fmt.Println("==========================================")
	fmt.Println("  gradecalc - 学院成绩测算")
	fmt.Println("==========================================")
	fmt.Printf("数据目录: %s\n", dataDir)
	fmt.Printf("接口地址: http://localhost:%d/api\n", cfg.Server.Port)
	fmt.Println("\n按 Ctrl+C 停止服务...")

	err := srv.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
