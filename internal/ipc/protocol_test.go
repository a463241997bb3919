package ipc

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"CREATE_ELEMENT","payload":{"type":"browser","source":"example.com","position":[10,20],"size":[800,600]}}` + "\n"))
	if err != nil {
		t.Fatalf("ParseRequest() error: %v", err)
	}
	if req.Command != CommandCreateElement {
		t.Errorf("Command = %q", req.Command)
	}

	var p CreateElementPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("payload unmarshal error: %v", err)
	}
	if p.Position == nil || *p.Position != [2]int{10, 20} {
		t.Errorf("Position = %v", p.Position)
	}
	if p.Size == nil || *p.Size != [2]int{800, 600} {
		t.Errorf("Size = %v", p.Size)
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	if _, err := ParseRequest([]byte("not json\n")); err == nil {
		t.Fatal("ParseRequest accepted garbage")
	}
}

func TestCreatePayload_OmittedGeometryStaysNil(t *testing.T) {
	var p CreateElementPayload
	if err := json.Unmarshal([]byte(`{"type":"browser","source":"example.com"}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Position != nil || p.Size != nil {
		t.Errorf("omitted geometry decoded non-nil: pos=%v size=%v", p.Position, p.Size)
	}
}

func TestResponses(t *testing.T) {
	resp, err := NewOKResponse(StatusData{DaemonRunning: true, ElementCount: 2})
	if err != nil {
		t.Fatalf("NewOKResponse() error: %v", err)
	}
	if resp.Status != "OK" {
		t.Errorf("Status = %q", resp.Status)
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatal(err)
	}
	if !status.DaemonRunning || status.ElementCount != 2 {
		t.Errorf("status = %+v", status)
	}

	eresp := NewErrorResponse("boom")
	if eresp.Status != "ERROR" || eresp.Error != "boom" {
		t.Errorf("error response = %+v", eresp)
	}
}
