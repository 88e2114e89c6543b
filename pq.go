package astar

// frontierItem is one pending node. FScore equals the node's path cost since
// no heuristic term is added.
type frontierItem[S State, A any] struct {
	Node   Node[S, A]
	FScore float64
	Seq    uint64
}

// frontier is a min-heap on FScore. Equal scores pop in insertion order.
type frontier[S State, A any] []*frontierItem[S, A]

func (queue frontier[S, A]) Len() int { return len(queue) }

func (queue frontier[S, A]) Less(i, j int) bool {
	if queue[i].FScore != queue[j].FScore {
		return queue[i].FScore < queue[j].FScore
	}
	return queue[i].Seq < queue[j].Seq
}

func (queue frontier[S, A]) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *frontier[S, A]) Push(x any) {
	*queue = append(*queue, x.(*frontierItem[S, A]))
}

func (queue *frontier[S, A]) Pop() any {
	old := *queue
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*queue = old[:n-1]
	return item
}
