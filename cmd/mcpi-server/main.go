package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gomcpi/pkg/serve"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetLevel(logrus.InfoLevel)
}

func main() {
	portPtr := flag.Int("port", 3000, "Listen port")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Worker pool size")
	flag.Parse()

	server := serve.New(*workersPtr)
	serve.RegisterCompute(server)
	serve.RegisterJobs(server)
	logrus.Infof("Compute node with %d workers", server.NumWorkers)
	serve.Launch(server, *portPtr)
}
