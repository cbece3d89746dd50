package order

// VisibleOrders returns st.Orders when the filter is "all", otherwise the
// orders whose status equals the filter, in list order.
func VisibleOrders(st State) []Order {
	if st.Filter == FilterAll {
		return st.Orders
	}
	out := make([]Order, 0, len(st.Orders))
	for _, o := range st.Orders {
		if Filter(o.Status) == st.Filter {
			out = append(out, o)
		}
	}
	return out
}
