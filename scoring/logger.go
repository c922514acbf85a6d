package scoring

import "github.com/sirupsen/logrus"

// log 评分模块的日志记录器
var log = logrus.WithField("module", "scoring")
