// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("Disabled metrics have no handler", testDisabledMetricsHaveNoHandler)
	t.Run("Updates are recorded once set up", testUpdatesAreRecorded)
	t.Run("Enabled metrics are served on the configured path", testMetricsAreServed)
	t.Run("Instruments of the wrong type are rejected", testInstrumentTypeMismatch)
}

func testDisabledMetricsHaveNoHandler(t *testing.T) {
	h, err := Handler(NewDefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, h)
}

func testUpdatesAreRecorded(t *testing.T) {
	require.NoError(t, Setup())
	require.NoError(t, Setup())

	before := testutil.ToFloat64(txAppliedCounter)
	TransactionsAppliedAdd(3)
	TransactionsAppliedAdd(0)
	assert.Equal(t, before+3, testutil.ToFloat64(txAppliedCounter))

	DownloadObserve("success", time.Now())
	assert.Equal(t, float64(1), testutil.ToFloat64(downloadCounter.WithLabelValues("success")))

	SnapshotInstalledSet(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(snapshotInstalled))
}

func testMetricsAreServed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	h, err := Handler(cfg)
	require.NoError(t, err)
	require.NotNil(t, h)

	TransactionsSentAdd(1)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, cfg.Path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coresync_catchup_transactions_sent_total")
}

func testInstrumentTypeMismatch(t *testing.T) {
	_, err := addInstrument[prometheus.Gauge](Counter, "mismatched_total")
	require.ErrorIs(t, err, ErrInstrumentTypeMismatch)

	_, err = addInstrument[prometheus.Counter](instrument(42), "unknown")
	require.ErrorIs(t, err, ErrInstrumentNotSupported)

	// nothing was registered, the name is still free.
	c, err := addInstrument[prometheus.Counter](Counter, "mismatched_total")
	require.NoError(t, err)
	assert.NotNil(t, c)
}
