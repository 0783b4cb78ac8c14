package degiro

import (
	"log"
	"sync"

	"github.com/StockwatchDev/stockwatch/date"
)

// ImportJob describes one scraping run: download daily position reports
// for every day in [Start, End) and the account report covering the same
// range, into the stock directory.
type ImportJob struct {
	Session Session
	Start   date.Date
	End     date.Date
	Dir     Dir
}

// Worker downloads reports in a background goroutine so a caller can poll
// progress and cancel. The zero value is ready to use.
type Worker struct {
	mu       sync.Mutex
	job      ImportJob
	current  date.Date
	running  bool
	stopping bool
	finished bool
}

// Start launches the job. It reports false if a previous job is still
// running.
func (w *Worker) Start(job ImportJob) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return false
	}
	w.job = job
	w.current = job.Start
	w.running = true
	w.stopping = false
	w.finished = false
	go w.process()
	return true
}

// Stop asks a running job to halt after the current download.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopping = true
}

// Created reports whether a job has ever been started.
func (w *Worker) Created() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running || w.finished
}

// Finished reports whether the last job has completed or was stopped.
func (w *Worker) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

// Progress returns how far the job has come, as a percentage.
func (w *Worker) Progress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running && !w.finished {
		return 0
	}
	whole := w.job.End.Sub(w.job.Start)
	if whole <= 0 {
		return 100
	}
	return w.current.Sub(w.job.Start) * 100 / whole
}

// CurrentDate returns the day currently being downloaded.
func (w *Worker) CurrentDate() date.Date {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// EndDate returns the last day of the job range.
func (w *Worker) EndDate() date.Date {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.job.End
}

func (w *Worker) process() {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.finished = true
		w.mu.Unlock()
	}()

	if !w.importPortfolios() {
		log.Print("failed to obtain all position reports")
		return
	}
	if !w.importAccountReport() {
		log.Print("failed to obtain the account report")
	}
}

// importPortfolios downloads one position report per day, skipping days
// already present on disk.
func (w *Worker) importPortfolios() bool {
	job := w.job
	for day := job.Start; day.Before(job.End); day = day.Add(1) {
		if w.stopRequested() {
			return false
		}
		w.setCurrent(day)

		if job.Dir.HasPortfolio(day) {
			continue
		}
		data, err := GetPortfolioAt(day, job.Session.Account, job.Session.SessionID)
		if err != nil {
			log.Printf("error getting position report for %s: %v", day, err)
			return false
		}
		if err := job.Dir.WritePortfolio(day, string(data)); err != nil {
			log.Printf("error writing position report for %s: %v", day, err)
			return false
		}
	}
	w.setCurrent(job.End)
	return true
}

func (w *Worker) importAccountReport() bool {
	job := w.job
	if w.stopRequested() {
		return false
	}
	data, err := GetAccountReport(job.Start, job.End, job.Session.Account, job.Session.SessionID)
	if err != nil {
		log.Printf("error getting account report: %v", err)
		return false
	}
	if err := job.Dir.WriteAccountReport(job.End, string(data)); err != nil {
		log.Printf("error writing account report: %v", err)
		return false
	}
	return true
}

func (w *Worker) stopRequested() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopping
}

func (w *Worker) setCurrent(day date.Date) {
	w.mu.Lock()
	w.current = day
	w.mu.Unlock()
}
