package main

import "net/http"

// healthCheckHandler reports the application status. The broker is only listed when
// contact messages are offloaded to it.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status := "available"
	info := map[string]string{
		"environment": app.config.Environment,
		"version":     app.config.Version,
	}

	if app.broker != nil {
		info["broker"] = "connected"
		if app.broker.IsClosed() {
			info["broker"] = "disconnected"
			status = "degraded"
		}
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"status": status, "system_info": info}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
