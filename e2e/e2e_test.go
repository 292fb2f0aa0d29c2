package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/mealprep/app"
	"github.com/kilianp07/mealprep/config"
	"github.com/kilianp07/mealprep/core/factory"
	"github.com/kilianp07/mealprep/infra/mqtt"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// junitReport is a minimal JUnit XML report so CI can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

// startInflux starts an InfluxDB 2.7 container with the test org, bucket
// and admin token already provisioned.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:1.6",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "1883")
	return cont, fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

const sundayPrep = `{
  "session": {"id": "sunday", "duration_minutes": 120},
  "tasks": [
    {"session_id": "sunday", "task_name": "Roast chicken", "duration_minutes": 75, "appliance": "oven", "order_priority": 1},
    {"session_id": "sunday", "task_name": "Bake granola", "duration_minutes": 60, "appliance": "oven", "order_priority": 2},
    {"session_id": "sunday", "task_name": "Chop vegetables", "duration_minutes": 20, "appliance": "counter", "order_priority": 1, "can_parallel": true},
    {"session_id": "sunday", "task_name": "Cook rice", "duration_minutes": 25, "appliance": "stovetop_1", "order_priority": 3}
  ]
}`

// Test_E2E_SchedulePipeline runs the service against real InfluxDB and
// Mosquitto containers: a plan posted to the API must end up as points in
// the bucket and as retained messages on the broker.
func Test_E2E_SchedulePipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	influxCont, influxURL := startInflux(ctx, t)
	defer influxCont.Terminate(ctx) //nolint:errcheck
	mqttCont, brokerURL := startMosquitto(ctx, t)
	defer mqttCont.Terminate(ctx) //nolint:errcheck
	t.Logf("InfluxDB started at %s", influxURL)
	t.Logf("Mosquitto started at %s", brokerURL)

	influx := NewInfluxClient(influxURL, influxOrg, influxBucket, influxToken)
	defer influx.Close()
	require.NoError(t, influx.SetupBucket(ctx))

	cfg := &config.Config{}
	cfg.Metrics.Sinks = []factory.ModuleConfig{{
		Type: "influx",
		Conf: map[string]any{"url": influxURL, "token": influxToken, "org": influxOrg, "bucket": influxBucket},
	}}
	cfg.MQTT = mqtt.Config{Broker: brokerURL, ClientID: "e2e-service", QoS: 1, Retain: true}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := app.New(cfg)
	require.NoError(t, err)
	defer svc.Close() //nolint:errcheck

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srvCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Serve(srvCtx, ln) }()
	defer func() {
		stop()
		assert.NoError(t, <-done)
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/schedule", "application/json",
		bytes.NewBufferString(sundayPrep))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plan struct {
		ID    string `json:"plan_id"`
		Tasks []struct {
			Name  string `json:"task_name"`
			Start int    `json:"start_time"`
		} `json:"tasks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	require.Len(t, plan.Tasks, 4)

	require.Eventually(t, func() bool {
		runs, err := influx.FieldValues(ctx, "schedule_run", "tasks")
		return err == nil && len(runs) == 1
	}, 30*time.Second, 500*time.Millisecond, "schedule_run point not written")
	starts, err := influx.FieldValues(ctx, "task_placement", "start_minute")
	require.NoError(t, err)
	assert.Len(t, starts, 4)

	received := make(chan []byte, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(brokerURL).SetClientID("e2e-sub"))
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(250)
	tok = sub.Subscribe("kitchen/sunday/appliance/oven", 1, func(_ paho.Client, m paho.Message) {
		select {
		case received <- m.Payload():
		default:
		}
	})
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())

	select {
	case payload := <-received:
		var tl mqtt.Timeline
		require.NoError(t, json.Unmarshal(payload, &tl))
		assert.Equal(t, plan.ID, tl.PlanID)
		require.Len(t, tl.Slots, 2)
		assert.Equal(t, "Roast chicken", tl.Slots[0].TaskName)
		assert.Equal(t, 60, tl.Slots[1].Start, "overflowing bake clamped to end at the session limit")
	case <-time.After(10 * time.Second):
		t.Fatal("oven timeline not retained on broker")
	}

	dir := t.TempDir()
	rep := junitReport{Name: "e2e", Tests: 1, Cases: []junitTestCase{{
		Name: "Test_E2E_SchedulePipeline",
		Time: time.Since(started).Seconds(),
	}}}
	if err := writeJUnit(filepath.Join(dir, "e2e.xml"), rep); err != nil {
		t.Logf("write junit: %v", err)
	}
}
