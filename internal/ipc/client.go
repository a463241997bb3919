package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
	"github.com/deskcanvas/deskcanvas/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		// Creates can block on content load, so the deadline is generous.
		timeout: 30 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetState retrieves a reconciled canvas snapshot.
func (c *Client) GetState() (*canvas.Canvas, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetState})
	if err != nil {
		return nil, err
	}

	var snap canvas.Canvas
	if err := json.Unmarshal(resp.Data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse canvas state: %w", err)
	}
	return &snap, nil
}

// GetBoundaries retrieves the canvas boundaries.
func (c *Client) GetBoundaries() (*canvas.Boundaries, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetBoundaries})
	if err != nil {
		return nil, err
	}

	var bounds canvas.Boundaries
	if err := json.Unmarshal(resp.Data, &bounds); err != nil {
		return nil, fmt.Errorf("failed to parse boundaries: %w", err)
	}
	return &bounds, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return &monitors, nil
}

// GetHistory retrieves the recorded operation history.
func (c *Client) GetHistory() ([]canvas.Operation, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetHistory})
	if err != nil {
		return nil, err
	}

	var hist HistoryData
	if err := json.Unmarshal(resp.Data, &hist); err != nil {
		return nil, fmt.Errorf("failed to parse history data: %w", err)
	}
	return hist.Operations, nil
}

// CreateElement asks the daemon to create an element.
func (c *Client) CreateElement(p CreateElementPayload) (*canvas.Element, error) {
	return c.elementRequest(CommandCreateElement, p)
}

// ModifyElement asks the daemon to apply a partial change set.
func (c *Client) ModifyElement(p ModifyElementPayload) (*canvas.Element, error) {
	return c.elementRequest(CommandModifyElement, p)
}

// FocusElement asks the daemon to focus an element's window.
func (c *Client) FocusElement(elementID string) (*canvas.Element, error) {
	return c.elementRequest(CommandFocusElement, ElementPayload{ElementID: elementID})
}

func (c *Client) elementRequest(cmd CommandType, payload any) (*canvas.Element, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: cmd, Payload: data})
	if err != nil {
		return nil, err
	}

	var elem canvas.Element
	if err := json.Unmarshal(resp.Data, &elem); err != nil {
		return nil, fmt.Errorf("failed to parse element: %w", err)
	}
	return &elem, nil
}

// RemoveElement asks the daemon to remove an element.
func (c *Client) RemoveElement(elementID string) error {
	data, err := json.Marshal(ElementPayload{ElementID: elementID})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandRemoveElement, Payload: data})
	return err
}

// Clear asks the daemon to remove every element.
func (c *Client) Clear() error {
	_, err := c.sendRequest(&Request{Command: CommandClear})
	return err
}

// ListComponents retrieves the component catalog.
func (c *Client) ListComponents() ([]ComponentInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListComponents})
	if err != nil {
		return nil, err
	}

	var comps ComponentsData
	if err := json.Unmarshal(resp.Data, &comps); err != nil {
		return nil, fmt.Errorf("failed to parse components data: %w", err)
	}
	return comps.Components, nil
}
