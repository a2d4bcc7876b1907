package main

import (
	"crypto/tls"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	cf "github.com/blabu/egeonRpcGateway/configuration"
	"github.com/blabu/egeonRpcGateway/data/sessiondata"
	"github.com/blabu/egeonRpcGateway/gateway"
	"github.com/blabu/egeonRpcGateway/httpGateway"
	"github.com/blabu/egeonRpcGateway/server"
	"github.com/blabu/egeonRpcGateway/stat"

	lg "log"

	log "github.com/blabu/egeonRpcGateway/logWrapper"
)

var confPath = flag.String("conf", "./config.yml", "Set path to config file")

// entryPoint - объект доступный клиентам по ссылке "t"
type entryPoint struct {
	gw *gateway.Gateway
}

func (e *entryPoint) Version() string {
	return stat.S_VERSION
}

func (e *entryPoint) ActiveConnections() int {
	return e.gw.ActiveConnections()
}

func (e *entryPoint) NewList() *gateway.List {
	return gateway.NewList()
}

func initLogger(stop <-chan struct{}) {
	if len(cf.Config.LogPath) != 0 {
		minutes := cf.Config.SaveDuration
		if minutes == 0 {
			minutes = 60 * 24 // Раз в сутки по умолчанию
		}
		go log.GetLogger().ChangeFile(cf.Config.LogPath, time.Duration(minutes)*time.Minute, stop)
	}
	log.SetFlags(lg.Ldate | lg.Ltime | lg.Lshortfile)
}

func getTCPListener() net.Listener {
	listen, err := net.Listen("tcp", cf.Config.ServerTCPPort)
	if err != nil {
		log.Fatalf("Can not run listener at port %s %v", cf.Config.ServerTCPPort, err)
		return nil
	}
	log.Info("Start TCP server at ", cf.Config.ServerTCPPort)
	return listen
}

func getTLSListener() (net.Listener, error) {
	certificate, err := tls.LoadX509KeyPair(cf.Config.CertificatePath, cf.Config.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	localSrv, err := net.Listen("tcp", cf.Config.ServerTLSPort)
	if err != nil {
		return nil, err
	}
	conf := &tls.Config{Certificates: []tls.Certificate{certificate}}
	log.Info("Start TLS server at ", cf.Config.ServerTLSPort)
	return tls.NewListener(localSrv, conf), nil
}

func main() {
	flag.Parse()
	log.Infof("Try read configuration file %s\n", *confPath)
	if err := cf.ReadConfig(*confPath); err != nil {
		log.Warningf("Can not read configuration %s: %v. Default configuration is used", *confPath, err)
	}
	// Подписываемся на оповещение, когда операционка захочет нас прибить
	sigTerm := make(chan os.Signal, 1)
	signal.Notify(sigTerm, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	stopLog := make(chan struct{})
	defer close(stopLog)
	initLogger(stopLog)
	cf.ShowAllConfigStore(os.Stderr)

	entry := new(entryPoint)
	opt := gateway.Options{
		EntryPoint: entry,
		Stat:       stat.CreateStatistics(time.Duration(cf.Config.OldIPAddrTimeout) * time.Minute),
	}
	if len(cf.Config.SessionStore) != 0 {
		store, err := sessiondata.Open(cf.Config.SessionStore)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer store.Close()
		opt.Store = store
	}
	gw := gateway.New(opt)
	entry.gw = gw

	acceptor := server.NewAcceptor(gw, cf.Config.MaxConnectionFromIP)
	if len(cf.Config.ServerTLSPort) != 0 {
		if tlsListener, err := getTLSListener(); err != nil {
			log.Error(err.Error())
		} else {
			go func() {
				if err := acceptor.Serve(tlsListener); err != nil {
					log.Error(err.Error())
				}
				log.Info("Finish tls service")
			}()
		}
	}
	tcpListener := getTCPListener()
	go func() {
		if err := acceptor.Serve(tcpListener); err != nil {
			log.Error(err.Error())
		}
		log.Info("Finish tcp service")
	}()
	if len(cf.Config.HTTPAdminPort) != 0 {
		go func() {
			if err := httpGateway.RunGateway(cf.Config.HTTPAdminPort, gw, nil); err != nil {
				log.Error(err.Error())
			}
		}()
	}
	select {
	case <-sigTerm:
		log.Info("Operation system kill server")
	case <-gw.Done():
		log.Info("Gateway shutdown by client command")
	}
	acceptor.Stop()
	acceptor.CloseConnections()
	// история соединений сохраняется до закрытия хранилища
	if !gw.WaitIdle(5 * time.Second) {
		log.Warningf("%d connections are still open on exit", gw.ActiveConnections())
	}
}
