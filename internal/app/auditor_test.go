package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgebossman22/appear-ai-audit-working/internal/app"
	"github.com/georgebossman22/appear-ai-audit-working/internal/interfaces"
	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
)

const gptbotLine = `127.0.0.1 - - [10/Oct/2023:13:55:36 -0700] "GET /pricing HTTP/1.1" 200 512 "-" "Mozilla/5.0 GPTBot/1.0"`

func newTestAuditor(t *testing.T) *app.Auditor {
	t.Helper()
	// Empty config: every platform answers with a placeholder, no network.
	return app.NewAuditor(app.DefaultConfig(), interfaces.NewTestLogger(false))
}

func TestRunAuditProducesFullResult(t *testing.T) {
	a := newTestAuditor(t)

	result, err := a.RunAudit(context.Background(), app.AuditRequest{
		Brand:    "Acme",
		Keywords: []string{"analytics"},
		LogLines: []string{gptbotLine, "junk"},
	}, nil)
	if err != nil {
		t.Fatalf("RunAudit: %v", err)
	}

	// 5 prompts x 4 platforms.
	if len(result.Responses) != 20 {
		t.Fatalf("got %d responses, want 20", len(result.Responses))
	}
	if len(result.Events) != 1 {
		t.Fatalf("got %d crawl events, want 1", len(result.Events))
	}
	if result.Summary[model.BotGPTBot]["/pricing"] != 1 {
		t.Fatalf("summary missing GPTBot /pricing: %+v", result.Summary)
	}
	if !strings.Contains(result.Report, "# AI Exposure Report for **Acme**") {
		t.Fatalf("report title missing:\n%s", result.Report)
	}
	// Placeholders never mention the brand.
	if !strings.Contains(result.Report, "approximate exposure rate of **0.0%**") {
		t.Fatalf("placeholder-only audit must have 0.0%% exposure:\n%s", result.Report)
	}
}

func TestRunAuditRequiresBrand(t *testing.T) {
	a := newTestAuditor(t)
	if _, err := a.RunAudit(context.Background(), app.AuditRequest{}, nil); err == nil {
		t.Fatal("expected an error for missing brand")
	}
}

func TestRunAuditWithoutLogsOrKeywords(t *testing.T) {
	a := newTestAuditor(t)

	result, err := a.RunAudit(context.Background(), app.AuditRequest{Brand: "Acme"}, nil)
	if err != nil {
		t.Fatalf("RunAudit: %v", err)
	}
	if len(result.Responses) != 12 {
		t.Fatalf("got %d responses, want 12 (3 prompts x 4 platforms)", len(result.Responses))
	}
	if len(result.Events) != 0 || len(result.Summary) != 0 {
		t.Fatal("no log lines must mean no events and an empty summary")
	}
	if !strings.Contains(result.Report, "No crawl events were detected") {
		t.Fatal("report must carry the no-crawl message")
	}
}

func waitForJob(t *testing.T, a *app.Auditor, jobID string, want app.JobStatus) *app.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := a.GetJob(jobID)
		if job != nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	job := a.GetJob(jobID)
	t.Fatalf("job %s never reached %s (last status: %+v)", jobID, want, job)
	return nil
}

func TestStartAuditJobCompletes(t *testing.T) {
	a := newTestAuditor(t)
	defer a.Close()

	job, err := a.StartAuditJob(context.Background(), app.AuditRequest{Brand: "Acme"})
	if err != nil {
		t.Fatalf("StartAuditJob: %v", err)
	}

	done := waitForJob(t, a, job.ID, app.JobDone)
	if done.Result == nil || done.Result.Report == "" {
		t.Fatal("finished job carries no result")
	}

	// The events channel must deliver per-response progress and a final
	// result event, then close.
	var sawResponse, sawResult bool
	for ev := range job.Events {
		switch ev.Type {
		case app.JobEventResponse:
			sawResponse = true
			if ev.Response == nil {
				t.Fatal("response event without payload")
			}
		case app.JobEventResult:
			sawResult = true
			if ev.Report == "" {
				t.Fatal("result event without report")
			}
		}
	}
	if !sawResponse || !sawResult {
		t.Fatalf("event stream incomplete: response=%v result=%v", sawResponse, sawResult)
	}
}

func TestStartAuditJobRequiresBrand(t *testing.T) {
	a := newTestAuditor(t)
	if _, err := a.StartAuditJob(context.Background(), app.AuditRequest{}); err == nil {
		t.Fatal("expected an error for missing brand")
	}
}

func TestCancelJob(t *testing.T) {
	a := newTestAuditor(t)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // canceled before the job goroutine starts working

	job, err := a.StartAuditJob(ctx, app.AuditRequest{Brand: "Acme"})
	if err != nil {
		t.Fatalf("StartAuditJob: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j := a.GetJob(job.ID)
		if j != nil && (j.Status == app.JobCanceled || j.Status == app.JobDone) {
			if j.Status != app.JobCanceled {
				t.Fatalf("job finished as %s, want canceled", j.Status)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never settled")
}

func TestJobReadsAreDetachedSnapshots(t *testing.T) {
	a := newTestAuditor(t)
	defer a.Close()

	job, err := a.StartAuditJob(context.Background(), app.AuditRequest{Brand: "Acme"})
	if err != nil {
		t.Fatalf("StartAuditJob: %v", err)
	}

	// Encode job reads continuously while the job goroutine mutates the
	// stored Job; with -race this catches any unsynchronized sharing.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if j := a.GetJob(job.ID); j != nil {
				if _, err := json.Marshal(j); err != nil {
					return
				}
			}
			for _, j := range a.ListJobs() {
				_, _ = json.Marshal(j)
			}
		}
	}()

	waitForJob(t, a, job.ID, app.JobDone)
	close(stop)
	wg.Wait()

	snap := a.GetJob(job.ID)
	if snap.Events != nil {
		t.Fatal("snapshot must not expose the live events channel")
	}
	snap.Status = app.JobFailed
	if got := a.GetJob(job.ID).Status; got != app.JobDone {
		t.Fatalf("mutating a snapshot changed the stored job: %s", got)
	}
}

func TestListJobs(t *testing.T) {
	a := newTestAuditor(t)
	defer a.Close()

	if n := len(a.ListJobs()); n != 0 {
		t.Fatalf("fresh auditor lists %d jobs, want 0", n)
	}

	job, err := a.StartAuditJob(context.Background(), app.AuditRequest{Brand: "Acme"})
	if err != nil {
		t.Fatalf("StartAuditJob: %v", err)
	}
	waitForJob(t, a, job.ID, app.JobDone)

	if n := len(a.ListJobs()); n != 1 {
		t.Fatalf("got %d jobs, want 1", n)
	}
}
