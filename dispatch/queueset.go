package dispatch

// QueueName selects one queue of a QueueSet.
type QueueName int

const (
	QueueSessionEvent QueueName = iota
	QueueVadEvent
	QueuePartialResult
	QueueFinalResult
	QueueGeneral
	QueueGlobalEvent
	QueueGlobalSettings
)

func (name QueueName) String() string {

	switch name {
	case QueueSessionEvent:
		return "session_event"
	case QueueVadEvent:
		return "vad_event"
	case QueuePartialResult:
		return "partial_result"
	case QueueFinalResult:
		return "final_result"
	case QueueGeneral:
		return "general_response"
	case QueueGlobalEvent:
		return "global_event"
	case QueueGlobalSettings:
		return "global_settings"
	default:
		return "unknown"
	}
}

var categoryQueues = map[Category][]QueueName{
	CategorySession: {QueueSessionEvent, QueueVadEvent, QueuePartialResult, QueueFinalResult, QueueGeneral},
	CategoryGlobal:  {QueueGlobalEvent, QueueGlobalSettings},
}

// QueueSet is the fixed set of response queues owned by one stream. Which
// queues exist depends on the stream's category.
type QueueSet struct {
	queues map[QueueName]*Queue[*Response]
}

func newQueueSet(category Category) *QueueSet {

	queueSet := &QueueSet{
		queues: make(map[QueueName]*Queue[*Response]),
	}
	for _, name := range categoryQueues[category] {
		queueSet.queues[name] = NewQueue[*Response]()
	}

	return queueSet
}

// Queue returns the named queue, or nil if this set has no such queue.
func (queueSet *QueueSet) Queue(name QueueName) *Queue[*Response] {

	return queueSet.queues[name]
}

// Len returns the total number of buffered messages across all queues.
func (queueSet *QueueSet) Len() (total int) {

	for _, queue := range queueSet.queues {
		total += queue.Len()
	}

	return total
}

// drain empties every queue and returns the number of dropped messages.
func (queueSet *QueueSet) drain() (dropped int) {

	for _, queue := range queueSet.queues {
		dropped += queue.Drain()
	}

	return dropped
}
