package http

import (
	"net"
	"net/http"
	"time"

	"devcart/product-outbox-relay/log"
)

const dialTimeout = time.Second * 1

type Pinger interface {
	Ping() error
}

// healthzHandler answers liveness and readiness probes. Liveness only needs
// the outbox database; readiness additionally dials the Kafka brokers, since
// a relay that cannot reach the bus is not ready to claim envelopes.
type healthzHandler struct {
	brokerAddrs []string
	db          Pinger
}

func NewHealthzHandler(brokerAddrs []string, db Pinger) http.Handler {
	return &healthzHandler{
		brokerAddrs: brokerAddrs,
		db:          db,
	}
}

func (h healthzHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	healthy := true
	if req.URL.Query().Get("readiness") == "1" {
		healthy = h.checkBrokers() && h.checkDatabase()
	} else {
		healthy = h.checkDatabase()
	}

	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func (h healthzHandler) checkDatabase() bool {
	if err := h.db.Ping(); err != nil {
		log.Logger.Debug("outbox database is not available or there is a problem with connectivity")
		return false
	}
	return true
}

func (h healthzHandler) checkBrokers() bool {
	healthy := true
	for _, host := range h.brokerAddrs {
		log.Logger.Debugf("checking connectivity to %s", host)
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err != nil {
			healthy = false
			log.Logger.Debugf("unable to connect to %s", host)
		} else {
			_ = conn.Close()
		}
	}
	return healthy
}
