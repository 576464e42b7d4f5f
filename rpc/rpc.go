package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/store"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server and registers the control service.
func NewServer(addr string, st *store.Store) (*Server, error) {
	if err := rpc.Register(NewControlService(st)); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// ControlService exposes the daemon's ops surface over net/rpc:
// inspect state, inject a scan, force a room refresh.
type ControlService struct {
	store *store.Store
}

func NewControlService(st *store.Store) *ControlService {
	return &ControlService{store: st}
}

// Methods follow the net/rpc signature: exported method, exported
// arguments, second argument is a pointer, return type is error.

type StatusArgs struct{}

type StatusReply struct {
	State store.StateSnapshot
}

func (cs *ControlService) Status(args *StatusArgs, reply *StatusReply) error {
	reply.State = cs.store.StateSnapshot()
	return nil
}

type ScanArgs struct {
	Code string
}

type ScanReply struct {
	EventID string
}

// Scan injects a code as if it had been scanned by a UI surface.
func (cs *ControlService) Scan(args *ScanArgs, reply *ScanReply) error {
	cs.store.Scan(args.Code)
	if e := cs.store.CurrentEvent(); e != nil {
		reply.EventID = e.ID
	}
	return nil
}

type RefreshArgs struct{}

type RefreshReply struct {
	InRoom bool
}

// Refresh forces an immediate room poll outside the fixed interval.
func (cs *ControlService) Refresh(args *RefreshArgs, reply *RefreshReply) error {
	reply.InRoom = cs.store.Session().InRoom()
	if reply.InRoom {
		cs.store.Session().RefreshNow()
	}
	return nil
}
