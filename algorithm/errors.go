package algorithm

import "github.com/wyfcoding/naivebayes/xerrors"

var (
	// ErrEmptyData 目标属性没有任何取值。
	ErrEmptyData = xerrors.ErrEmptyData
	// ErrInvalidSmoothing 平滑常数为负。
	ErrInvalidSmoothing = xerrors.ErrInvalidSmoothing
	// ErrDegenerateDistribution 分布既无观测也无平滑。
	ErrDegenerateDistribution = xerrors.ErrDegenerateDistribution
	// ErrSampleTooShort 样本未覆盖全部输入属性。
	ErrSampleTooShort = xerrors.ErrSampleTooShort
	// ErrUnknownClass 类别不在目标值域内。
	ErrUnknownClass = xerrors.ErrUnknownClass
	// ErrInvalidAttribute 属性不存在或不是输入属性。
	ErrInvalidAttribute = xerrors.ErrInvalidAttribute
)
