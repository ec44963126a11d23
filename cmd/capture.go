package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"framewatch/internal/producer"
)

var captureCommand = &cobra.Command{
	Use:   "capture",
	Short: "Capture camera frames and publish them to the stream",
	Run: func(cmd *cobra.Command, args []string) {
		runCapture()
	},
}

func runCapture() {
	conf, err := producer.LoadConfig(configFile)
	if err != nil {
		logrus.Fatal("initConfig error, ", err.Error())
	}

	nsqProducer, err := nsq.NewProducer(conf.NSQ.NSQDAddrs[0], nsq.NewConfig())
	if err != nil {
		logrus.Fatal("failed to create nsq producer, ", err.Error())
	}
	defer nsqProducer.Stop()

	p, err := producer.New(conf, nsqProducer)
	if err != nil {
		logrus.Fatalf("failed to create producer: %v", err)
	}
	if err := p.Start(); err != nil {
		logrus.Fatalf("failed to start capture: %v", err)
	}

	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan
	logrus.Infof("capture is shutting down...")
	p.Stop()
}
