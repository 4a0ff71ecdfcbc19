// Package queues is the catalog of queue names shared across contexts.
package queues

const (
	EmailWelcome       = "email.welcome"
	EmailNotification  = "email.notification"
	EmailResetPassword = "email.reset_password"

	DataProcess = "data.process"
	DataAnalyze = "data.analyze"
	DataExport  = "data.export"

	ReportGenerate = "report.generate"
	ReportSend     = "report.send"

	// Shared queues, listened on by more than one context.
	Notification   = "notification"
	LogUserAction  = "log.user_action"
	LogSystemEvent = "log.system_event"
)

// Listen lists per context.
var (
	Email = []string{
		EmailWelcome,
		EmailNotification,
		EmailResetPassword,
		Notification,
		LogUserAction,
	}

	Data = []string{
		DataProcess,
		DataAnalyze,
		DataExport,
		LogSystemEvent,
	}

	Report = []string{
		ReportGenerate,
		ReportSend,
		Notification,
		LogUserAction,
	}
)

// ForContext maps a context name to the queues it listens on.
func ForContext(name string) ([]string, bool) {
	switch name {
	case "email":
		return Email, true
	case "data":
		return Data, true
	case "report":
		return Report, true
	}
	return nil, false
}
