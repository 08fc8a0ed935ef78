package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLookup(t *testing.T) {
	before := testutil.ToFloat64(lookupsTotal.WithLabelValues(ResultFailure))
	RecordLookup(errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(lookupsTotal.WithLabelValues(ResultFailure)))

	before = testutil.ToFloat64(lookupsTotal.WithLabelValues(ResultSuccess))
	RecordLookup(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(lookupsTotal.WithLabelValues(ResultSuccess)))
}

func TestDownloadStarted(t *testing.T) {
	active := testutil.ToFloat64(activeDownloads)
	done := DownloadStarted("720p")
	assert.Equal(t, active+1, testutil.ToFloat64(activeDownloads))

	before := testutil.ToFloat64(downloadsTotal.WithLabelValues("720p", ResultSuccess))
	done(nil)
	assert.Equal(t, active, testutil.ToFloat64(activeDownloads))
	assert.Equal(t, before+1, testutil.ToFloat64(downloadsTotal.WithLabelValues("720p", ResultSuccess)))
}

func TestPromhttpExposure(t *testing.T) {
	RecordPlaylist(nil)

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
