package pkg

const (
	HeaderTraceId   string = "X-Trace-Id"
	HeaderRequestId string = "X-Request-Id"
)

const (
	TraceId   string = "trace_id"
	RequestId string = "request_id"
)

// Entity names used in log fields, cache keys and not-found messages.
const (
	EntityCustomer        string = "customer"
	EntityCustomerAccount string = "customer account"
	EntityProduct         string = "product"
	EntityOrder           string = "order"
)
