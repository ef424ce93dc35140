package contagiongo

import (
	"bytes"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/segmentio/ksuid"
	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// DataLogger is the general definition of a logger that records simulation
// output to file, whether it writes text files or a database.
type DataLogger interface {
	// SetBasePath sets the base path of the logger; i disambiguates
	// concurrently-written replicate instances.
	SetBasePath(path string, i int)
	// Init initializes the logger: creates files/tables and writes any
	// header information.
	Init() error
	// WriteSeries records the (t, I, R) time series of one run.
	WriteSeries(c <-chan SeriesLogEntry)
	// WriteTransmissions records transmission (source, target) pairs
	// observed while tracing was enabled.
	WriteTransmissions(c <-chan TransmissionLogEntry)
	// WriteFinalSizes records the sampled final-outbreak-size fractions.
	WriteFinalSizes(c <-chan FinalSizeLogEntry)
}

// SeriesLogEntry is one (t, I, R) point tagged with the run that produced
// it.
type SeriesLogEntry struct {
	RunID     ksuid.KSUID
	Time      float64
	Infected  int
	Recovered int
}

// TransmissionLogEntry is one traced (source, target) transmission tagged
// with the run that produced it.
type TransmissionLogEntry struct {
	RunID  ksuid.KSUID
	Source int
	Target int
}

// FinalSizeLogEntry is one sampled final-outbreak-size fraction tagged with
// the run that produced it.
type FinalSizeLogEntry struct {
	RunID     ksuid.KSUID
	FinalSize float64
}

// CSVLogger is a DataLogger that writes simulation output as comma-
// delimited files.
type CSVLogger struct {
	seriesPath       string
	transmissionPath string
	finalSizePath    string
}

// NewCSVLogger creates a new logger that writes data into CSV files.
func NewCSVLogger(basepath string, i int) *CSVLogger {
	l := new(CSVLogger)
	l.SetBasePath(basepath, i)
	return l
}

// SetBasePath sets the base path of the logger.
func (l *CSVLogger) SetBasePath(basepath string, i int) {
	if info, err := os.Stat(basepath); err == nil && info.IsDir() {
		basepath += "log"
	}
	l.seriesPath = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%03d.%s.csv", i, "series")
	l.transmissionPath = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%03d.%s.csv", i, "trans")
	l.finalSizePath = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%03d.%s.csv", i, "finalsize")
}

// Init creates CSV files and writes header rows.
func (l *CSVLogger) Init() error {
	newFile := func(path, header string) error {
		var b bytes.Buffer
		b.WriteString(header)
		return NewFile(path, b.Bytes())
	}
	if err := newFile(l.seriesPath, "runID,t,I,R\n"); err != nil {
		return err
	}
	if err := newFile(l.transmissionPath, "runID,source,target\n"); err != nil {
		return err
	}
	if err := newFile(l.finalSizePath, "runID,finalSize\n"); err != nil {
		return err
	}
	return nil
}

// WriteSeries records the (t, I, R) time series of one run.
func (l *CSVLogger) WriteSeries(c <-chan SeriesLogEntry) {
	const template = "%s,%g,%d,%d\n"
	var b bytes.Buffer
	for e := range c {
		b.WriteString(fmt.Sprintf(template, e.RunID.String(), e.Time, e.Infected, e.Recovered))
	}
	AppendToFile(l.seriesPath, b.Bytes())
}

// WriteTransmissions records traced (source, target) transmission pairs.
func (l *CSVLogger) WriteTransmissions(c <-chan TransmissionLogEntry) {
	const template = "%s,%d,%d\n"
	var b bytes.Buffer
	for e := range c {
		b.WriteString(fmt.Sprintf(template, e.RunID.String(), e.Source, e.Target))
	}
	AppendToFile(l.transmissionPath, b.Bytes())
}

// WriteFinalSizes records sampled final-outbreak-size fractions.
func (l *CSVLogger) WriteFinalSizes(c <-chan FinalSizeLogEntry) {
	const template = "%s,%g\n"
	var b bytes.Buffer
	for e := range c {
		b.WriteString(fmt.Sprintf(template, e.RunID.String(), e.FinalSize))
	}
	AppendToFile(l.finalSizePath, b.Bytes())
}

// NewFile creates a new file at path if it does not already exist.
func NewFile(path string, b []byte) error {
	if exists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err = f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// AppendToFile creates path if missing, otherwise appends to it.
func AppendToFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err = f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// SQLiteLogger is a DataLogger that writes simulation output into SQLite
// tables, one table per logged channel, suffixed by instance number.
type SQLiteLogger struct {
	seriesPath       string
	transmissionPath string
	finalSizePath    string
	instanceID       int
}

// NewSQLiteLogger creates a new logger that writes to SQLite databases.
func NewSQLiteLogger(basepath string, i int) *SQLiteLogger {
	l := new(SQLiteLogger)
	l.SetBasePath(basepath, i)
	return l
}

// SetBasePath sets the base path of the logger.
func (l *SQLiteLogger) SetBasePath(basepath string, i int) {
	if info, err := os.Stat(basepath); err == nil && info.IsDir() {
		basepath += fmt.Sprintf("log.%03d", i)
	}
	l.seriesPath = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%s.db", "series")
	l.transmissionPath = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%s.db", "trans")
	l.finalSizePath = strings.TrimSuffix(basepath, ".") + fmt.Sprintf(".%s.db", "finalsize")
	l.instanceID = i
}

// Init creates one table per logged channel, suffixed by instance number.
func (l *SQLiteLogger) Init() error {
	newTable := func(path, tableName, cols string) error {
		db, err := OpenSQLiteDB(path)
		if err != nil {
			return err
		}
		defer db.Close()
		_sqlStmt := `
	create table %s %s;
	delete from %s;
	`
		fullTableName := fmt.Sprintf("%s%03d", tableName, l.instanceID)
		sqlStmt := fmt.Sprintf(_sqlStmt, fullTableName, cols, fullTableName)
		_, err = db.Exec(sqlStmt)
		if err != nil {
			return fmt.Errorf("%q: %s", err, sqlStmt)
		}
		return nil
	}

	if err := newTable(l.seriesPath, "Series", "(id integer not null primary key, runID text, t real, I int, R int)"); err != nil {
		return err
	}
	if err := newTable(l.transmissionPath, "Transmission", "(id integer not null primary key, runID text, source int, target int)"); err != nil {
		return err
	}
	if err := newTable(l.finalSizePath, "FinalSize", "(id integer not null primary key, runID text, finalSize real)"); err != nil {
		return err
	}
	return nil
}

// WriteSeries records the (t, I, R) time series of one run.
func (l *SQLiteLogger) WriteSeries(c <-chan SeriesLogEntry) {
	tableName := fmt.Sprintf("Series%03d", l.instanceID)
	db, err := OpenSQLiteDB(l.seriesPath)
	if err != nil {
		log.Fatal(err)
		return
	}
	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
		return
	}
	stmt, err := tx.Prepare("insert into " + tableName + "(runID, t, I, R) values(?, ?, ?, ?)")
	if err != nil {
		log.Fatal(err)
		return
	}
	defer stmt.Close()
	for e := range c {
		if _, err = stmt.Exec(e.RunID.String(), e.Time, e.Infected, e.Recovered); err != nil {
			log.Fatal(err)
			return
		}
	}
	tx.Commit()
}

// WriteTransmissions records traced (source, target) transmission pairs.
func (l *SQLiteLogger) WriteTransmissions(c <-chan TransmissionLogEntry) {
	tableName := fmt.Sprintf("Transmission%03d", l.instanceID)
	db, err := OpenSQLiteDB(l.transmissionPath)
	if err != nil {
		log.Fatal(err)
		return
	}
	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
		return
	}
	stmt, err := tx.Prepare("insert into " + tableName + "(runID, source, target) values(?, ?, ?)")
	if err != nil {
		log.Fatal(err)
		return
	}
	defer stmt.Close()
	for e := range c {
		if _, err = stmt.Exec(e.RunID.String(), e.Source, e.Target); err != nil {
			log.Fatal(err)
			return
		}
	}
	tx.Commit()
}

// WriteFinalSizes records sampled final-outbreak-size fractions.
func (l *SQLiteLogger) WriteFinalSizes(c <-chan FinalSizeLogEntry) {
	tableName := fmt.Sprintf("FinalSize%03d", l.instanceID)
	db, err := OpenSQLiteDB(l.finalSizePath)
	if err != nil {
		log.Fatal(err)
		return
	}
	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
		return
	}
	stmt, err := tx.Prepare("insert into " + tableName + "(runID, finalSize) values(?, ?)")
	if err != nil {
		log.Fatal(err)
		return
	}
	defer stmt.Close()
	for e := range c {
		if _, err = stmt.Exec(e.RunID.String(), e.FinalSize); err != nil {
			log.Fatal(err)
			return
		}
	}
	tx.Commit()
}

// OpenSQLiteDB opens (or creates) the SQLite database at path.
func OpenSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
