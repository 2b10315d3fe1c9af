package multi

import "slices"

// SubflowSelector は、次の書き込みに使用するサブフローを選択するインターフェースです。
type SubflowSelector interface {
	// Get は、bsSize バイトのデータを書き込むサブフローのIDを返します。
	// 選択できるサブフローがない場合は0を返します。
	Get(bsSize int64) uint32
}

// SubflowSetter は、サブフローの増減を通知されるセレクタが実装するインターフェースです。
type SubflowSetter interface {
	// SetSubflows は、選択対象のサブフローIDを昇順で設定します。
	SetSubflows(ids []uint32)
}

// MetricsUpdater は、サブフローのメトリクスを受け取るセレクタが実装するインターフェースです。
type MetricsUpdater interface {
	// UpdateSubflow は、サブフローのメトリクスを更新します。
	UpdateSubflow(id uint32, m *SubflowMetrics)

	// RemoveSubflow は、取り除かれたサブフローのメトリクスを破棄します。
	RemoveSubflow(id uint32)
}

// selectAvailable は、selected が ids に含まれていればそれを、含まれていなければ ids の先頭を返します。
func selectAvailable(selected uint32, ids []uint32) uint32 {
	if len(ids) == 0 {
		return 0
	}
	if selected != 0 && slices.Contains(ids, selected) {
		return selected
	}
	return ids[0]
}
