package conf

import "time"

// CassandraAddress represents cassandra address flag.
var CassandraAddress = NewStringFlag("cassandra_addr", "Address of Cassandra DB endpoint for run metadata", "127.0.0.1")

// CassandraPort represents cassandra port flag.
var CassandraPort = NewIntFlag("cassandra_port", "Port of Cassandra DB endpoint", 9042)

// CassandraUsername holds the user name which will be presented when connecting to the cluster.
var CassandraUsername = NewStringFlag("cassandra_username", "The user name which will be presented when connecting to the cluster", "")

// CassandraPassword holds the password which will be presented when connecting to the cluster.
var CassandraPassword = NewStringFlag("cassandra_password", "The password which will be presented when connecting to the cluster", "")

// CassandraConnectionTimeout encodes the internal connection timeout for the publisher.
var CassandraConnectionTimeout = NewIntFlag("cassandra_timeout", "Cassandra connection timeout in seconds", 0)

// CassandraConnectionTimeoutValue returns the configured timeout as a Duration.
func CassandraConnectionTimeoutValue() time.Duration {
	return time.Duration(CassandraConnectionTimeout.Value()) * time.Second
}
