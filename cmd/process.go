package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"framewatch/internal/config"
	"framewatch/internal/detect"
	"framewatch/internal/model"
	"framewatch/internal/notify"
	"framewatch/internal/processor"
	"framewatch/internal/storage"
	"framewatch/pkg/log"
)

var processCommand = &cobra.Command{
	Use:   "process",
	Short: "Consume frame packages from the stream and process them",
	Run: func(cmd *cobra.Command, args []string) {
		runProcess()
	},
}

func runProcess() {
	conf, err := processor.LoadConfig(configFile)
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

	detector, err := detect.NewTritonDetector(&conf.Triton, &conf.Detect)
	if err != nil {
		logrus.Fatal("failed to create detector, ", err.Error())
	}
	readyCtx, readyCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := detector.CheckReady(readyCtx); err != nil {
		readyCancel()
		logrus.Fatal("detection service not ready, ", err.Error())
	}
	readyCancel()

	var nsqProducer *nsq.Producer
	if conf.WatchList.NotifyTopic != "" {
		nsqProducer, err = nsq.NewProducer(conf.NSQ.NSQDAddrs[0], nsq.NewConfig())
		if err != nil {
			logrus.Fatal("failed to create nsq producer, ", err.Error())
		}
		defer nsqProducer.Stop()
	}
	notifier := notify.NewDispatcher(&conf.WatchList, publisherOrNil(nsqProducer), log.NewLogger())

	metrics := processor.NewMetrics(&conf.InfluxDB, log.NewLogger())

	p, err := processor.New(conf, loc, detector, store, model.NewFrameStore(db), notifier, metrics)
	if err != nil {
		logrus.Fatalf("failed to create processor: %v", err)
	}
	if err := p.Start(); err != nil {
		logrus.Fatalf("failed to start processor: %v", err)
	}

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan
	logrus.Infof("processor is shutting down...")
	p.Stop()
}
