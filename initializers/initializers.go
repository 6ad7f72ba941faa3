package initializers

import (
	"context"
	"party-find-backend/config"
	"party-find-backend/fiberlog"
	authhandler "party-find-backend/lib/auth"
	characterhandler "party-find-backend/lib/character"
	contentprovider "party-find-backend/lib/dicts/content"
	regionprovider "party-find-backend/lib/dicts/region"
	xlsexport "party-find-backend/lib/export/xls"
	partyfindhandler "party-find-backend/lib/party-find"
	partyfindlisting "party-find-backend/lib/party-find/listing"
	pushcleanupworker "party-find-backend/lib/push/cleanup-worker"
	pushhandler "party-find-backend/lib/push/handler"
	connectionhub "party-find-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()

	connectionhub.Init()
	pushhandler.NewHandler()

	authhandler.NewHandler()
	characterhandler.NewHandler()
	contentprovider.NewHandler()
	regionprovider.NewHandler()
	partyfindhandler.NewHandler()
	partyfindlisting.NewHandler()
	xlsexport.NewHandler()

	pushcleanupworker.StartWorker(ctx)
}
