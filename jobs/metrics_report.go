package jobs

import (
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/sirupsen/logrus"
)

// MetricsReportJob periodically logs the gateway and submission counters
type MetricsReportJob struct {
	Gateway     *shared.HTTPMetrics
	Submissions *shared.ServiceMetrics
}

func NewMetricsReportJob(gateway *shared.HTTPMetrics, submissions *shared.ServiceMetrics) *MetricsReportJob {
	return &MetricsReportJob{Gateway: gateway, Submissions: submissions}
}

func (j *MetricsReportJob) Run() {
	if j.Gateway != nil {
		j.Gateway.LogHTTPSummary()
	}
	if j.Submissions != nil {
		j.Submissions.LogSummary()
	}
	logrus.Debug("Metrics Report Job completed")
}
