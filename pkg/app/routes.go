package app

import "net/http"

func (a *App) initRouter() {
	a.router.HandleFunc("/healthz", a.HealthHandler).Methods(http.MethodGet)

	a.router.HandleFunc("/auth/callback", a.AuthCallbackHandler).Methods(http.MethodGet)

	api := a.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", a.StateHandler).Methods(http.MethodGet)
	api.HandleFunc("/notifications", a.NotificationsHandler).Methods(http.MethodGet)

	api.HandleFunc("/auth/check", a.AuthCheckHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", a.AuthLoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/complete", a.AuthCompleteHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/cancel", a.AuthCancelHandler).Methods(http.MethodPost)

	api.HandleFunc("/folders/open", a.OpenFolderHandler).Methods(http.MethodPost)
	api.HandleFunc("/breadcrumbs/{index:[0-9]+}", a.BreadcrumbHandler).Methods(http.MethodPost)
	api.HandleFunc("/back", a.BackHandler).Methods(http.MethodPost)
	api.HandleFunc("/refresh", a.RefreshHandler).Methods(http.MethodPost)
	api.HandleFunc("/search", a.SearchHandler).Methods(http.MethodPost)
	api.HandleFunc("/preview", a.PreviewHandler).Methods(http.MethodGet)

	api.HandleFunc("/upload", a.UploadHandler).Methods(http.MethodPost)
	api.HandleFunc("/folders/create", a.CreateFolderHandler).Methods(http.MethodPost)
	api.HandleFunc("/delete/prompt", a.DeletePromptHandler).Methods(http.MethodPost)
	api.HandleFunc("/delete/confirm", a.DeleteConfirmHandler).Methods(http.MethodPost)
	api.HandleFunc("/delete/cancel", a.DeleteCancelHandler).Methods(http.MethodPost)
}
