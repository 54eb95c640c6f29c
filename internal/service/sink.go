package service

import (
	"github.com/segyhp/student-loan-simulator/internal/domain"
)

// CycleRecordSink receives one record per completed pay cycle
type CycleRecordSink interface {
	WriteCycle(record *domain.CycleRecord) error
}

// SinkFunc adapts a function to CycleRecordSink
type SinkFunc func(record *domain.CycleRecord) error

func (f SinkFunc) WriteCycle(record *domain.CycleRecord) error {
	return f(record)
}

// RecordCollector keeps every record in memory
type RecordCollector struct {
	Records []*domain.CycleRecord
}

func (c *RecordCollector) WriteCycle(record *domain.CycleRecord) error {
	c.Records = append(c.Records, record)
	return nil
}

// MultiSink writes each record to every sink in order, stopping at the first error
type MultiSink []CycleRecordSink

func (m MultiSink) WriteCycle(record *domain.CycleRecord) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.WriteCycle(record); err != nil {
			return err
		}
	}
	return nil
}

type discardSink struct{}

func (discardSink) WriteCycle(*domain.CycleRecord) error { return nil }
