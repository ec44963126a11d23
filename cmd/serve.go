package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"framewatch/internal/config"
	"framewatch/internal/model"
	"framewatch/internal/notify"
	"framewatch/internal/server"
	"framewatch/internal/storage"
	"framewatch/pkg/log"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the frame retrieval API server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	conf, err := server.LoadConfig(configFile)
	if err != nil {
		logrus.Fatal("initConfig error, ", err.Error())
	}

	loc, err := config.Location(conf.Timezone)
	if err != nil {
		logrus.Fatal("invalid timezone, ", err.Error())
	}

	db, err := model.InitDB(conf.DB)
	if err != nil {
		logrus.Fatal("failed to init database", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	store, err := storage.NewMinioStore(&conf.S3)
	if err != nil {
		logrus.Fatal("failed to init object store, ", err.Error())
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	var nsqProducer *nsq.Producer
	if conf.WatchList.NotifyTopic != "" && len(conf.NSQ.NSQDAddrs) > 0 {
		nsqProducer, err = nsq.NewProducer(conf.NSQ.NSQDAddrs[0], nsq.NewConfig())
		if err != nil {
			logrus.Fatal("failed to create nsq producer, ", err.Error())
		}
		defer nsqProducer.Stop()
	}
	notifier := notify.NewDispatcher(&conf.WatchList, publisherOrNil(nsqProducer), log.GetLogger(ctx))

	srv, err := server.NewServer(ctx, conf, loc, model.NewFrameStore(db), store, notifier)
	if err != nil {
		logrus.Fatalf("newServer error, %s", err.Error())
		cancelFunc()
		return
	}
	go srv.Start()

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan
	logrus.Infof("server is shutting down...")
	srv.Shutdown()
	cancelFunc()
}

// publisherOrNil avoids handing the dispatcher a typed-nil interface.
func publisherOrNil(p *nsq.Producer) notify.TopicPublisher {
	if p == nil {
		return nil
	}
	return p
}
