package config

// Default values applied when the configuration omits a field.
const (
	DefaultTitle     = "API Documentation"
	DefaultOutputDir = "./site"
	DefaultTheme     = "default"
	DefaultRouter    = "kind"
	DefaultBaseURL   = "/"

	DefaultSearchNameWeight     = 10
	DefaultSearchCommentWeight  = 1
	DefaultSearchDocumentWeight = 1

	DefaultJournalPath   = "docreflect-events.db"
	DefaultReportSubject = "docs.links.broken"
	DefaultReportBucket  = "link-reports"
	DefaultMetricsListen = ":9100"

	DefaultPreviewListen     = ":8080"
	DefaultPreviewDebounceMS = 2000
)

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
		c.Output.Clean = true
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Router == "" {
		c.Router = DefaultRouter
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	// Zero weights mean "not configured": a field weighted 0 on purpose would
	// remove it from ranking entirely, which the strict validator rejects.
	if c.Search.Weights.Name == 0 {
		c.Search.Weights.Name = DefaultSearchNameWeight
	}
	if c.Search.Weights.Comment == 0 {
		c.Search.Weights.Comment = DefaultSearchCommentWeight
	}
	if c.Search.Weights.Document == 0 {
		c.Search.Weights.Document = DefaultSearchDocumentWeight
	}

	if c.Journal.Path == "" {
		c.Journal.Path = DefaultJournalPath
	}
	if c.Reporting.NATSURL != "" {
		if c.Reporting.Subject == "" {
			c.Reporting.Subject = DefaultReportSubject
		}
		if c.Reporting.Bucket == "" {
			c.Reporting.Bucket = DefaultReportBucket
		}
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsListen
	}
	if c.Preview.Listen == "" {
		c.Preview.Listen = DefaultPreviewListen
	}
	if c.Preview.DebounceMS <= 0 {
		c.Preview.DebounceMS = DefaultPreviewDebounceMS
	}

	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}
