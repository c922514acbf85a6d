package writer

import "github.com/sirupsen/logrus"

// log 持久化模块的日志记录器
var log = logrus.WithField("module", "writer")
