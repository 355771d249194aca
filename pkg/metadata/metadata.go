// Package metadata stores characterization run metadata (configuration
// flags and finished tables) in Cassandra, keyed by run id. Storing
// metadata is optional; a characterization run does not depend on it.
package metadata

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/ishikabhosale/OpenRAM/pkg/conf"
)

// Kinds of metadata groups stored per run.
const (
	KindFlags   = "flags"
	KindTable   = "table"
	KindEnviron = "environ"
)

// Config encodes the settings for connecting to the database.
type Config struct {
	CassandraAddress           string
	CassandraPort              int
	CassandraUsername          string
	CassandraPassword          string
	CassandraConnectionTimeout time.Duration
}

// DefaultConfig returns a setup which uses a Cassandra cluster running on
// localhost without any authentication.
func DefaultConfig() Config {
	return Config{
		CassandraAddress: "127.0.0.1",
		CassandraPort:    9042,
	}
}

// ConfigFromFlags applies the Cassandra settings from the command line
// flags and environment variables.
func ConfigFromFlags() Config {
	return Config{
		CassandraAddress:           conf.CassandraAddress.Value(),
		CassandraPort:              conf.CassandraPort.Value(),
		CassandraUsername:          conf.CassandraUsername.Value(),
		CassandraPassword:          conf.CassandraPassword.Value(),
		CassandraConnectionTimeout: conf.CassandraConnectionTimeoutValue(),
	}
}

// Map encodes the key value pairs to be stored per metadata group.
type Map map[string]string

// Metadata keeps the Cassandra session alive, holds the active
// configuration and the run id to tag the metadata with.
type Metadata struct {
	runID   string
	config  Config
	session *gocql.Session
}

// New returns the Metadata helper from a run id and configuration.
// Connect still needs to be called to get an active Cassandra session.
func New(runID string, config Config) *Metadata {
	return &Metadata{
		runID:  runID,
		config: config,
	}
}

// Connect creates a session to the Cassandra cluster and prepares the
// keyspace and table. This function should only be called once.
func (m *Metadata) Connect() error {
	cluster := gocql.NewCluster(m.config.CassandraAddress)
	cluster.Port = m.config.CassandraPort
	cluster.ProtoVersion = 4
	cluster.Consistency = gocql.LocalOne
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = m.config.CassandraConnectionTimeout

	if m.config.CassandraUsername != "" && m.config.CassandraPassword != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: m.config.CassandraUsername,
			Password: m.config.CassandraPassword,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return errors.Wrap(err, "could not connect to Cassandra")
	}
	m.session = session

	if err := m.session.Query(
		"CREATE KEYSPACE IF NOT EXISTS characterizer WITH REPLICATION = { 'class': 'SimpleStrategy', 'replication_factor': 1 }",
	).Exec(); err != nil {
		return errors.Wrap(err, "could not create keyspace")
	}

	if err := m.session.Query(
		"CREATE TABLE IF NOT EXISTS characterizer.metadata (run_id text, kind text, time timestamp, metadata map<text,text>, PRIMARY KEY ((run_id), kind, time))",
	).Exec(); err != nil {
		return errors.Wrap(err, "could not create metadata table")
	}

	return nil
}

// Store saves one metadata group for the current run.
func (m *Metadata) Store(kind string, metadata Map) error {
	if m.session == nil {
		return errors.New("not connected to Cassandra")
	}

	err := m.session.Query(
		"INSERT INTO characterizer.metadata (run_id, kind, time, metadata) VALUES (?, ?, ?, ?)",
		m.runID, kind, time.Now(), map[string]string(metadata),
	).Exec()
	if err != nil {
		return errors.Wrapf(err, "could not store %q metadata for run %q", kind, m.runID)
	}

	return nil
}

// Get returns all metadata groups stored for the current run.
func (m *Metadata) Get() ([]Map, error) {
	if m.session == nil {
		return nil, errors.New("not connected to Cassandra")
	}

	maps := []Map{}
	iter := m.session.Query(
		"SELECT metadata FROM characterizer.metadata WHERE run_id = ?", m.runID,
	).Iter()

	var metadata map[string]string
	for iter.Scan(&metadata) {
		maps = append(maps, Map(metadata))
		metadata = nil
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "could not fetch metadata for run %q", m.runID)
	}

	return maps, nil
}

// Close terminates the Cassandra session.
func (m *Metadata) Close() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
}
