package main

import (
	"encoding/base64"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/busnet-eval/task"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
	"github.com/tsinghua-fib-lab/busnet-eval/writer"
	"gopkg.in/yaml.v2"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 仿真事件文件路径，.gz后缀按gzip解压
	eventsPath = flag.String("events", "", "simulation events file path (.xml or .xml.gz)")
	// 记录文件格式
	formatName = flag.String("format", "arrow", "record file format (arrow or csv)")
	// 得分输出文件路径
	scorePath = flag.String("score", "output/score.bin", "composite score output file path")
	// 指标明细输出文件路径，设置为空则不输出明细
	breakdownPath = flag.String("breakdown", "", "per-metric breakdown JSON output path (empty means disabled)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "busnet-eval")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	var c config.Config
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	format, err := writer.ParseFormat(*formatName)
	if err != nil {
		log.Panicf("format parse err: %v", err)
	}
	if *eventsPath == "" {
		log.Panic("events file must be specified")
	}

	t, err := task.NewContext(c, format)
	if err != nil {
		log.Panicf("task init err: %v", err)
	}
	defer t.Close()

	if err := t.Run(*eventsPath, *scorePath, *breakdownPath); err != nil {
		log.Panicf("task run err: %v", err)
	}
}
