package extractor

import "github.com/sirupsen/logrus"

// log 抽取模块的日志记录器
var log = logrus.WithField("module", "extractor")
