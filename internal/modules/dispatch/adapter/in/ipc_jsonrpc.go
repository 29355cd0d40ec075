package in

import (
	"context"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"time"

	alarmin "shakker/internal/modules/alarm/port/in"
	challengedto "shakker/internal/modules/challenge/dto"
	challengein "shakker/internal/modules/challenge/port/in"
	dispatchdto "shakker/internal/modules/dispatch/dto"
	dispatchin "shakker/internal/modules/dispatch/port/in"
)

// JSONRPCServer exposes the firing and dismissal operations of a running
// daemon over a unix socket. Challenge sessions live only in the daemon
// process; a separate CLI invocation reaches them through this surface.
type JSONRPCServer struct {
	handler rpcHandler
}

type JSONRPCClient struct{}

func NewIPCServer(dispatch dispatchin.Usecase, alarms alarmin.Usecase, challenges challengein.Usecase) *JSONRPCServer {
	return &JSONRPCServer{handler: rpcHandler{dispatch: dispatch, alarms: alarms, challenges: challenges}}
}

func NewIPCClient() *JSONRPCClient {
	return &JSONRPCClient{}
}

type rpcHandler struct {
	dispatch   dispatchin.Usecase
	alarms     alarmin.Usecase
	challenges challengein.Usecase
}

type FireReq struct {
	AlarmID int64
}

type AnswerReq struct {
	Answer int
}

type Empty struct{}

func (h *rpcHandler) Fire(req FireReq, resp *dispatchdto.FiredOutput) error {
	alarm, err := h.alarms.Get(context.Background(), req.AlarmID)
	if err != nil {
		return err
	}
	out, err := h.dispatch.TimerFired(context.Background(), dispatchdto.FiredInput{AlarmID: req.AlarmID, Challenge: alarm.Challenge})
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (h *rpcHandler) DismissStatus(_ Empty, resp *challengedto.SessionOutput) error {
	session, err := h.challenges.Active(context.Background())
	if err != nil {
		return err
	}
	*resp = session
	return nil
}

func (h *rpcHandler) DismissAnswer(req AnswerReq, resp *challengedto.SessionOutput) error {
	session, err := h.challenges.Submit(context.Background(), challengedto.SubmitInput{Answer: req.Answer})
	if err != nil {
		return err
	}
	*resp = session
	return nil
}

func (h *rpcHandler) DismissManual(_ Empty, _ *Empty) error {
	return h.challenges.ManualDismiss(context.Background())
}

func (s *JSONRPCServer) Serve(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create ipc dir: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale ipc socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod ipc socket: %w", err)
	}
	defer ln.Close()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName("Shakker", &s.handler); err != nil {
		return fmt.Errorf("register ipc handler: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

func (c *JSONRPCClient) Fire(ctx context.Context, socketPath string, alarmID int64) (dispatchdto.FiredOutput, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return dispatchdto.FiredOutput{}, err
	}
	defer client.Close()
	resp := dispatchdto.FiredOutput{}
	if err := client.Call("Shakker.Fire", FireReq{AlarmID: alarmID}, &resp); err != nil {
		return dispatchdto.FiredOutput{}, err
	}
	return resp, nil
}

func (c *JSONRPCClient) DismissStatus(ctx context.Context, socketPath string) (challengedto.SessionOutput, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return challengedto.SessionOutput{}, err
	}
	defer client.Close()
	resp := challengedto.SessionOutput{}
	if err := client.Call("Shakker.DismissStatus", Empty{}, &resp); err != nil {
		return challengedto.SessionOutput{}, err
	}
	return resp, nil
}

func (c *JSONRPCClient) DismissAnswer(ctx context.Context, socketPath string, answer int) (challengedto.SessionOutput, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return challengedto.SessionOutput{}, err
	}
	defer client.Close()
	resp := challengedto.SessionOutput{}
	if err := client.Call("Shakker.DismissAnswer", AnswerReq{Answer: answer}, &resp); err != nil {
		return challengedto.SessionOutput{}, err
	}
	return resp, nil
}

func (c *JSONRPCClient) DismissManual(ctx context.Context, socketPath string) error {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Call("Shakker.DismissManual", Empty{}, &Empty{})
}

func dialClient(ctx context.Context, socketPath string) (*rpc.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))
	return rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)), nil
}
