package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"teamtrack-backend/config"
	"teamtrack-backend/fiberlog"
	attendancehandler "teamtrack-backend/lib/attendance"
	attendanceworker "teamtrack-backend/lib/attendance/worker"
	xlsexport "teamtrack-backend/lib/export/xls"
	notificationhandler "teamtrack-backend/lib/notification"
	projecthandler "teamtrack-backend/lib/project"
	taskhandler "teamtrack-backend/lib/task"
	timeloghandler "teamtrack-backend/lib/time-log"
	usershandler "teamtrack-backend/lib/users"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	notificationhandler.NewHandler()
	usershandler.NewHandler()
	projecthandler.NewHandler()
	taskhandler.NewHandler()
	timeloghandler.NewHandler()
	attendancehandler.NewHandler()
	xlsexport.NewHandler()
	if *config.Conf.Scheduler.Enabled {
		err := attendanceworker.Start()
		if err != nil {
			log.WithError(err).Error("failed to start attendance scheduler")
		}
	}
}
