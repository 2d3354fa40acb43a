package moodle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/studyhub/core"
)

const (
	restPath = "/webservice/rest/server.php"

	fnAssignments = "mod_assign_get_assignments"
	fnSiteInfo    = "core_webservice_get_site_info"
	fnUserCourses = "core_enrol_get_users_courses"
	fnGradeItems  = "gradereport_user_get_grade_items"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhub_lms_requests_total",
		Help: "LMS web service calls by function and result",
	}, []string{"function", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyhub_lms_request_duration_seconds",
		Help:    "LMS web service call duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"function"})
)

// Client calls the Moodle REST web service. It keeps no state between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ core.LMSGateway = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	return NewClientWithHTTP(conf.LMS.BaseURL, &http.Client{Timeout: conf.LMS.Timeout})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) ListAssignments(ctx context.Context, token string) (core.AssignmentsResponse, error) {
	var resp core.AssignmentsResponse
	err := c.call(ctx, token, fnAssignments, nil, &resp)
	return resp, err
}

func (c *Client) SiteInfo(ctx context.Context, token string) (core.SiteInfo, error) {
	var info core.SiteInfo
	err := c.call(ctx, token, fnSiteInfo, nil, &info)
	return info, err
}

func (c *Client) EnrolledCourses(ctx context.Context, token string, userID int64) ([]core.EnrolledCourse, error) {
	var courses []core.EnrolledCourse
	params := url.Values{"userid": {strconv.FormatInt(userID, 10)}}
	err := c.call(ctx, token, fnUserCourses, params, &courses)
	return courses, err
}

func (c *Client) GradeItems(ctx context.Context, token string, userID, courseID int64) (core.GradeReport, error) {
	var report core.GradeReport
	params := url.Values{
		"courseid": {strconv.FormatInt(courseID, 10)},
		"userid":   {strconv.FormatInt(userID, 10)},
	}
	err := c.call(ctx, token, fnGradeItems, params, &report)
	return report, err
}

// call issues one GET request for the web service function fn and decodes the JSON body into dst.
func (c *Client) call(ctx context.Context, token, fn string, params url.Values, dst interface{}) (err error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(fn).Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = "error"
			if errors.Is(err, core.ErrRemoteUnavailable) {
				result = "unavailable"
			}
		}
		requestTotal.WithLabelValues(fn, result).Inc()
	}()

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("wstoken", token)
	q.Set("wsfunction", fn)
	q.Set("moodlewsrestformat", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPath+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Wrapf(err, "building %s request", fn)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(core.ErrRemoteUnavailable, "%s: %v", fn, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(core.ErrRemoteUnavailable, "%s: reading body: %v", fn, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &core.RemoteError{Function: fn, StatusCode: resp.StatusCode, Body: body}
	}
	if err = json.Unmarshal(body, dst); err != nil {
		return &core.RemoteError{Function: fn, StatusCode: resp.StatusCode, Body: body, Err: err}
	}
	return nil
}
