package platform_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pawbook/go-admin-client/apiclient"
	"github.com/pawbook/go-admin-client/platform"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetAppName() string { return "PawBook Admin" }

func (c testConfig) GetAppVersion() string { return "1.0.0-test" }

func (c testConfig) GetEnv() string { return "test" }

func (c testConfig) GetLogLevel() string { return "disabled" }

func (c testConfig) GetCredentialsFile() string { return "" }

func (c testConfig) GetAPIBaseURL() string { return c.baseURL }

func (c testConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }

func (c testConfig) GetRefreshTimeout() time.Duration { return 5 * time.Second }

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newPlatformClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*apiclient.Client, *recordedRequest) {
	t.Helper()

	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.query = r.URL.RawQuery
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			_ = json.Unmarshal(body, &recorded.body)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return apiclient.New(testConfig{baseURL: server.URL}, zerolog.Nop()), recorded
}

func TestListParamsDefaults(t *testing.T) {
	values := platform.ListParams{}.Values()
	require.Equal(t, "1", values.Get("page"))
	require.Equal(t, "10", values.Get("size"))
	require.Empty(t, values.Get("sortBy"))
	require.Empty(t, values.Get("sort"))

	values = platform.ListParams{Page: 3, Size: 25, SortBy: "createdAt", Direction: "desc"}.Values()
	require.Equal(t, "3", values.Get("page"))
	require.Equal(t, "25", values.Get("size"))
	require.Equal(t, "createdAt", values.Get("sortBy"))
	require.Equal(t, "desc", values.Get("sort"))
}

func TestWithdrawalsListNormalizesPaging(t *testing.T) {
	api, recorded := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "w-1", "amount": 120.5, "status": "PENDING"},
				{"id": "w-2", "amount": 80, "status": "APPROVED"}
			],
			"paging": {"pageNumber": 2, "totalPage": 7, "pageSize": 2, "totalItem": 13}
		}`))
	})

	page, err := platform.NewWithdrawalsService(api).List(context.Background(), platform.ListParams{Page: 2, Size: 2})
	require.NoError(t, err)

	require.Equal(t, "/admin/withdrawals", recorded.path)
	require.Contains(t, recorded.query, "page=2")
	require.Contains(t, recorded.query, "size=2")

	require.Len(t, page.Items, 2)
	require.Equal(t, "w-1", page.Items[0].ID)
	require.Equal(t, platform.WithdrawalPending, page.Items[0].Status)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 2, page.PageSize)
	require.Equal(t, 13, page.TotalItems)
	require.Equal(t, 7, page.TotalPages)
}

func TestWithdrawalsListEmptyDataYieldsEmptyItems(t *testing.T) {
	api, _ := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": null, "paging": {"pageNumber": 1, "totalPage": 0, "pageSize": 10, "totalItem": 0}}`))
	})

	page, err := platform.NewWithdrawalsService(api).List(context.Background(), platform.ListParams{})
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
}

func TestWithdrawalApproveDefaultsNote(t *testing.T) {
	api, recorded := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "w-1", "status": "APPROVED"}}`))
	})

	withdrawal, err := platform.NewWithdrawalsService(api).Approve(context.Background(), "w-1", "")
	require.NoError(t, err)
	require.Equal(t, platform.WithdrawalApproved, withdrawal.Status)

	require.Equal(t, "/admin/withdrawals/w-1/approve", recorded.path)
	require.Equal(t, "Approved by admin", recorded.body["adminNote"])
}

func TestWithdrawalReject(t *testing.T) {
	api, recorded := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "w-1", "status": "REJECTED"}}`))
	})

	withdrawal, err := platform.NewWithdrawalsService(api).Reject(context.Background(), "w-1", "Account mismatch")
	require.NoError(t, err)
	require.Equal(t, platform.WithdrawalRejected, withdrawal.Status)

	require.Equal(t, "/admin/withdrawals/w-1/reject", recorded.path)
	require.Equal(t, "Account mismatch", recorded.body["rejectionReason"])
}

func TestWithdrawalCompleteDefaultsTransactionNote(t *testing.T) {
	api, recorded := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "w-1", "status": "COMPLETED"}}`))
	})

	withdrawal, err := platform.NewWithdrawalsService(api).Complete(context.Background(), "w-1", "")
	require.NoError(t, err)
	require.Equal(t, platform.WithdrawalCompleted, withdrawal.Status)
	require.Equal(t, "Bank transfer completed", recorded.body["transactionNote"])
}

func TestBookingsCancel(t *testing.T) {
	api, recorded := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "b-1", "status": "CANCELLED"}}`))
	})

	booking, err := platform.NewBookingsService(api).Cancel(context.Background(), "b-1", "Owner request")
	require.NoError(t, err)
	require.Equal(t, platform.BookingCancelled, booking.Status)
	require.Equal(t, "/admin/bookings/b-1/cancel", recorded.path)
	require.Equal(t, "Owner request", recorded.body["cancellationReason"])
}

func TestTermsGetByType(t *testing.T) {
	api, recorded := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "term-1", "type": "PRIVACY_POLICY", "language": "en", "isActive": true}`))
	})

	term, err := platform.NewTermsService(api).GetByType(context.Background(), platform.TermsPrivacyPolicy, "en")
	require.NoError(t, err)
	require.Equal(t, platform.TermsPrivacyPolicy, term.Type)
	require.True(t, term.IsActive)

	require.Equal(t, "/admin/terms/PRIVACY_POLICY", recorded.path)
	require.Contains(t, recorded.query, "language=en")
}

func TestUsersServiceErrorSurfacesAsAPIError(t *testing.T) {
	api, _ := newPlatformClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "User not found", "code": "NOT_FOUND"}`))
	})

	_, err := platform.NewUsersService(api).Get(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "User not found", apiErr.Message)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
}
