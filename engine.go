package cianparser

import "time"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/94.0.4606.81 Safari/537.36"

// Engine holds the tunables of a crawl. Zero fields fall back to getDefaultEngine.
type Engine struct {
	UserAgent         string
	Timeout           time.Duration
	RetryDelay        time.Duration // first backoff step
	MaxRetryDelay     time.Duration
	MaxRetryAttempts  int
	PageDelay         time.Duration // wait before following a pagination link
	IsDynamic         bool          // render pages in a headless browser
	BrowserControlURL string
	CheckRobotsTxt    bool
	ArchiveHtml       bool
}

func getDefaultEngine() Engine {
	return Engine{
		UserAgent:        defaultUserAgent,
		Timeout:          30 * time.Second,
		RetryDelay:       time.Second,
		MaxRetryDelay:    time.Minute,
		MaxRetryAttempts: 10,
		PageDelay:        500 * time.Millisecond,
	}
}

func overrideEngineDefaults(defaultEngine *Engine, eng *Engine) {
	if eng.UserAgent != "" {
		defaultEngine.UserAgent = eng.UserAgent
	}
	if eng.Timeout > 0 {
		defaultEngine.Timeout = eng.Timeout
	}
	if eng.RetryDelay > 0 {
		defaultEngine.RetryDelay = eng.RetryDelay
	}
	if eng.MaxRetryDelay > 0 {
		defaultEngine.MaxRetryDelay = eng.MaxRetryDelay
	}
	if eng.MaxRetryAttempts > 0 {
		defaultEngine.MaxRetryAttempts = eng.MaxRetryAttempts
	}
	if eng.PageDelay > 0 {
		defaultEngine.PageDelay = eng.PageDelay
	}
	if eng.IsDynamic {
		defaultEngine.IsDynamic = eng.IsDynamic
	}
	if eng.BrowserControlURL != "" {
		defaultEngine.BrowserControlURL = eng.BrowserControlURL
	}
	if eng.CheckRobotsTxt {
		defaultEngine.CheckRobotsTxt = eng.CheckRobotsTxt
	}
	if eng.ArchiveHtml {
		defaultEngine.ArchiveHtml = eng.ArchiveHtml
	}
}

// engineFromConfig reads the env overrides; unset keys keep the defaults.
func engineFromConfig(config *configService) Engine {
	return Engine{
		UserAgent:         config.EnvString("USER_AGENT"),
		Timeout:           config.EnvDuration("HTTP_TIMEOUT", 0),
		RetryDelay:        config.EnvDuration("RETRY_DELAY", 0),
		MaxRetryDelay:     config.EnvDuration("MAX_RETRY_DELAY", 0),
		MaxRetryAttempts:  config.EnvInt("MAX_RETRY_ATTEMPTS", 0),
		PageDelay:         config.EnvDuration("PAGE_DELAY", 0),
		IsDynamic:         config.EnvBool("IS_DYNAMIC"),
		BrowserControlURL: config.EnvString("BROWSER_CONTROL_URL"),
		CheckRobotsTxt:    config.EnvBool("CHECK_ROBOTS_TXT"),
		ArchiveHtml:       config.EnvBool("ARCHIVE_HTML"),
	}
}

func (app *Crawler) SetUserAgent(userAgent string) *Crawler {
	app.engine.UserAgent = userAgent
	return app
}

func (app *Crawler) SetPageDelay(delay time.Duration) *Crawler {
	app.engine.PageDelay = delay
	return app
}

func (app *Crawler) SetMaxRetryAttempts(attempts int) *Crawler {
	app.engine.MaxRetryAttempts = attempts
	return app
}

func (app *Crawler) SetTimeout(timeout time.Duration) *Crawler {
	app.engine.Timeout = timeout
	return app
}
