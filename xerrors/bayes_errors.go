package xerrors

var (
	// ErrEmptyData 输入数据为空。
	ErrEmptyData = New(ErrInvalidArg, 400001, "empty data", "input data must not be empty", nil)
	// ErrInvalidInput 输入格式错误。
	ErrInvalidInput = New(ErrInvalidArg, 400002, "invalid input", "check your input parameters", nil)

	// ErrInvalidAttribute 属性引用无法解析（名称不存在或下标越界）。
	ErrInvalidAttribute = New(ErrInvalidArg, 400101, "invalid attribute", "attribute must be a known name or an index within attrs", nil)
	// ErrAttrNamesMismatch attrs 与 attr_names 长度不一致。
	ErrAttrNamesMismatch = New(ErrInvalidArg, 400102, "attrs and attr names length mismatch", "one name is required per attribute", nil)
	// ErrTargetInInputs 目标属性出现在输入属性中。
	ErrTargetInInputs = New(ErrInvalidArg, 400103, "target attribute is listed in inputs", "inputs must not contain the target", nil)
	// ErrInputOutOfAttrs 输入属性不在 attrs 中。
	ErrInputOutOfAttrs = New(ErrInvalidArg, 400104, "input attribute not in attrs", "inputs must be a subset of attrs", nil)
	// ErrTargetOutOfAttrs 目标属性不在 attrs 中。
	ErrTargetOutOfAttrs = New(ErrInvalidArg, 400105, "target attribute not in attrs", "target must be one of attrs", nil)
	// ErrEmptyExamples 无法从空样本推断属性。
	ErrEmptyExamples = New(ErrInvalidArg, 400106, "no examples", "attrs cannot be inferred without examples", nil)
	// ErrRaggedRow 行宽与属性数量不一致。
	ErrRaggedRow = New(ErrInvalidArg, 400107, "row width mismatch", "every row needs one value per attribute", nil)

	// ErrBadValue 样本取值不在属性值域内。
	ErrBadValue = New(ErrInvalidArg, 400110, "bad value for attribute", "value is outside the attribute domain", nil)

	// ErrInvalidSmoothing 平滑常数为负。
	ErrInvalidSmoothing = New(ErrInvalidArg, 400120, "invalid smoothing", "default smoothing must be non-negative", nil)
	// ErrSampleTooShort 预测样本未覆盖全部输入属性。
	ErrSampleTooShort = New(ErrInvalidArg, 400121, "sample too short", "sample must supply a value for every input attribute", nil)

	// ErrDatasetNotFound 按名称加载的数据集不存在。
	ErrDatasetNotFound = New(ErrNotFound, 404101, "dataset not found", "no resource named <name>.csv", nil)
	// ErrUnknownClass 查询的类别不在目标值域内。
	ErrUnknownClass = New(ErrNotFound, 404102, "unknown class", "class is not part of the target domain", nil)

	// ErrDegenerateDistribution 没有任何观测也没有平滑时查询概率。
	ErrDegenerateDistribution = New(ErrInternal, 500101, "degenerate distribution", "no observations and no smoothing registered", nil)
	// ErrSourceUnavailable 数据源不可用。
	ErrSourceUnavailable = New(ErrUnavailable, 503101, "dataset source unavailable", "loader backend is not configured", nil)
)
